package rental

import (
	"context"

	"github.com/google/uuid"
)

// RoomFilter narrows room listings
type RoomFilter struct {
	Status *RoomStatus
}

// TenantFilter narrows tenant listings
type TenantFilter struct {
	Status *TenantStatus
	RoomID *uuid.UUID
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	Status   *PaymentStatus
	TenantID *uuid.UUID
}

// RoomRepository defines the interface for room persistence
type RoomRepository interface {
	// FindByID finds a room by its ID without associations
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindByIDWithTenants loads a room with all its tenants, each with up to
	// paymentLimit payments ordered by due date desc. A negative limit loads all payments.
	FindByIDWithTenants(ctx context.Context, id uuid.UUID, paymentLimit int) (*Room, error)

	// FindAll lists rooms newest first, each with its active tenants
	FindAll(ctx context.Context, filter RoomFilter) ([]Room, error)

	// Create inserts a new room
	Create(ctx context.Context, room *Room) error

	// Save updates an existing room
	Save(ctx context.Context, room *Room) error

	// UpdateStatus sets only the status column
	UpdateStatus(ctx context.Context, id uuid.UUID, status RoomStatus) error

	// Delete deletes a room
	Delete(ctx context.Context, id uuid.UUID) error
}

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// FindByID finds a tenant by its ID without associations
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByIDWithDetails loads a tenant with its room and all payments (due date desc)
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindAll lists tenants newest first, each with its room and up to paymentLimit recent payments
	FindAll(ctx context.Context, filter TenantFilter, paymentLimit int) ([]Tenant, error)

	// CountActiveByRoom counts ACTIVE tenants of a room, ignoring excludeID
	CountActiveByRoom(ctx context.Context, roomID uuid.UUID, excludeID uuid.UUID) (int64, error)

	// Create inserts a new tenant
	Create(ctx context.Context, tenant *Tenant) error

	// Save updates an existing tenant
	Save(ctx context.Context, tenant *Tenant) error

	// Delete deletes a tenant
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment with its tenant and the tenant's room
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindAll lists payments by due date desc, each with tenant and room
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, error)

	// FindByRoom lists every payment of every tenant of the room, by paid date desc
	FindByRoom(ctx context.Context, roomID uuid.UUID) ([]Payment, error)

	// Create inserts a new payment
	Create(ctx context.Context, payment *Payment) error

	// Save updates an existing payment
	Save(ctx context.Context, payment *Payment) error

	// Delete deletes a payment
	Delete(ctx context.Context, id uuid.UUID) error
}

// UtilityConsumptionRepository defines the interface for meter reading persistence
type UtilityConsumptionRepository interface {
	// FindByID finds a reading with its room summary
	FindByID(ctx context.Context, id uuid.UUID) (*UtilityConsumption, error)

	// FindAll lists readings (of one room when roomID is set) by year desc, month desc
	FindAll(ctx context.Context, roomID *uuid.UUID) ([]UtilityConsumption, error)

	// FindByPeriod finds the reading for a room and period
	FindByPeriod(ctx context.Context, roomID uuid.UUID, period Period) (*UtilityConsumption, error)

	// Create inserts a new reading. A duplicate (room, month, year) yields a conflict error.
	Create(ctx context.Context, record *UtilityConsumption) error

	// Save updates an existing reading
	Save(ctx context.Context, record *UtilityConsumption) error

	// Delete deletes a reading
	Delete(ctx context.Context, id uuid.UUID) error
}
