package rental

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TenantStatus represents whether a tenant currently occupies a room
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "ACTIVE"
	TenantStatusInactive TenantStatus = "INACTIVE"
	TenantStatusMovedOut TenantStatus = "MOVED_OUT"
)

// IsValid reports whether s is a known tenant status
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusActive, TenantStatusInactive, TenantStatusMovedOut:
		return true
	}
	return false
}

// Tenant is a person leasing a room
type Tenant struct {
	shared.BaseEntity
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	RoomID      uuid.UUID
	MoveInDate  time.Time
	MoveOutDate *time.Time
	Rent        decimal.Decimal
	Deposit     decimal.Decimal
	Status      TenantStatus

	// Populated only by queries that load the associations
	Room     *Room
	Payments []Payment
}

// NewTenant creates an active tenant for the given room
func NewTenant(roomID uuid.UUID, firstName, lastName string, moveIn time.Time, rent, deposit decimal.Decimal) (*Tenant, error) {
	if roomID == uuid.Nil {
		return nil, shared.NewValidationError("Room is required")
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, shared.NewValidationError("Tenant first and last name are required")
	}
	if moveIn.IsZero() {
		return nil, shared.NewValidationError("Move-in date is required")
	}
	if rent.IsNegative() || deposit.IsNegative() {
		return nil, shared.NewValidationError("Rent and deposit cannot be negative")
	}

	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
		RoomID:     roomID,
		MoveInDate: moveIn,
		Rent:       rent,
		Deposit:    deposit,
		Status:     TenantStatusActive,
	}, nil
}

// IsActive reports whether the tenant currently occupies the room
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// FullName returns "First Last"
func (t *Tenant) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// SetStatus changes the tenant status
func (t *Tenant) SetStatus(status TenantStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Invalid tenant status: " + string(status))
	}
	t.Status = status
	t.Touch()
	return nil
}

// SetMoveOut records the move-out date. It must not precede the move-in date.
func (t *Tenant) SetMoveOut(at time.Time) error {
	if at.Before(t.MoveInDate) {
		return shared.NewValidationError("Move-out date cannot be before move-in date")
	}
	t.MoveOutDate = &at
	t.Touch()
	return nil
}

// TrimPayments keeps at most n of the loaded payments. Payments are expected in due date desc order.
func (t *Tenant) TrimPayments(n int) {
	if n >= 0 && len(t.Payments) > n {
		t.Payments = t.Payments[:n]
	}
}
