package rental

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/rentdesk/backend/internal/infrastructure/logger"
	"github.com/rentdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// tenantListPaymentLimit is the number of recent payments loaded per tenant on tenant lists
const tenantListPaymentLimit = 3

// TenantService handles tenant-related business operations. Moving a tenant in or out
// keeps the room status consistent within the same transaction.
type TenantService struct {
	tenantRepo      rental.TenantRepository
	txScope         TransactionScope
	logger          *zap.Logger
	businessMetrics *telemetry.RentalMetrics
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo rental.TenantRepository, txScope TransactionScope, logger *zap.Logger) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		txScope:    txScope,
		logger:     logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *TenantService) SetBusinessMetrics(m *telemetry.RentalMetrics) {
	s.businessMetrics = m
}

// List lists tenants newest first with their room and most recent payments
func (s *TenantService) List(ctx context.Context, filter TenantListFilter) ([]TenantResponse, error) {
	var f rental.TenantFilter
	if filter.Status != nil && *filter.Status != "" {
		st := rental.TenantStatus(strings.ToUpper(*filter.Status))
		if !st.IsValid() {
			return nil, shared.NewValidationError("Invalid tenant status: " + *filter.Status)
		}
		f.Status = &st
	}
	f.RoomID = filter.RoomID

	tenants, err := s.tenantRepo.FindAll(ctx, f, tenantListPaymentLimit)
	if err != nil {
		return nil, err
	}
	return ToTenantResponses(tenants), nil
}

// GetByID returns a tenant with its room and full payment history
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByIDWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// Create leases a room to a new tenant and marks the room OCCUPIED
func (s *TenantService) Create(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	tenant, err := rental.NewTenant(req.RoomID, req.FirstName, req.LastName, req.MoveInDate, valueOrZero(req.Rent), valueOrZero(req.Deposit))
	if err != nil {
		return nil, err
	}
	tenant.Email = strings.TrimSpace(req.Email)
	tenant.Phone = strings.TrimSpace(req.Phone)
	if req.MoveOutDate != nil {
		if err := tenant.SetMoveOut(*req.MoveOutDate); err != nil {
			return nil, err
		}
	}
	if req.Status != "" {
		if err := tenant.SetStatus(rental.TenantStatus(req.Status)); err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		room, err := repos.Rooms().FindByID(ctx, req.RoomID)
		if err != nil {
			return err
		}
		if err := repos.Tenants().Create(ctx, tenant); err != nil {
			return err
		}
		if err := repos.Rooms().UpdateStatus(ctx, room.ID, rental.RoomStatusOccupied); err != nil {
			return err
		}
		room.MarkOccupied()
		tenant.Room = room
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOr(ctx, s.logger).Info("Tenant moved in",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("room_id", tenant.RoomID.String()))
	if s.businessMetrics != nil {
		s.businessMetrics.RecordTenantMovedIn(ctx)
	}

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// Update applies a partial update to a tenant. A status change re-evaluates the room status
// inside a SERIALIZABLE transaction. The room assignment cannot be changed.
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	var updated *rental.Tenant
	err := s.txScope.ExecuteSerializable(ctx, func(repos TransactionalRepositories) error {
		tenant, err := repos.Tenants().FindByID(ctx, id)
		if err != nil {
			return err
		}
		wasActive := tenant.IsActive()

		if err := applyTenantUpdate(tenant, req); err != nil {
			return err
		}
		if err := repos.Tenants().Save(ctx, tenant); err != nil {
			return err
		}

		switch {
		case !wasActive && tenant.IsActive():
			if err := repos.Rooms().UpdateStatus(ctx, tenant.RoomID, rental.RoomStatusOccupied); err != nil {
				return err
			}
		case wasActive && !tenant.IsActive():
			if err := releaseRoomIfVacant(ctx, repos, tenant); err != nil {
				return err
			}
		}
		updated = tenant
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToTenantResponse(updated)
	return &resp, nil
}

// Delete removes a tenant. When no other ACTIVE tenant remains in the room, the room
// becomes AVAILABLE. Both changes commit together at SERIALIZABLE isolation.
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	var roomID uuid.UUID
	err := s.txScope.ExecuteSerializable(ctx, func(repos TransactionalRepositories) error {
		tenant, err := repos.Tenants().FindByID(ctx, id)
		if err != nil {
			return err
		}
		roomID = tenant.RoomID

		if err := releaseRoomIfVacant(ctx, repos, tenant); err != nil {
			return err
		}
		return repos.Tenants().Delete(ctx, tenant.ID)
	})
	if err != nil {
		return err
	}

	logger.FromContextOr(ctx, s.logger).Info("Tenant removed",
		zap.String("tenant_id", id.String()),
		zap.String("room_id", roomID.String()))
	if s.businessMetrics != nil {
		s.businessMetrics.RecordTenantRemoved(ctx)
	}
	return nil
}

// releaseRoomIfVacant marks the tenant's room AVAILABLE when no other ACTIVE tenant remains
func releaseRoomIfVacant(ctx context.Context, repos TransactionalRepositories, tenant *rental.Tenant) error {
	remaining, err := repos.Tenants().CountActiveByRoom(ctx, tenant.RoomID, tenant.ID)
	if err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}
	return repos.Rooms().UpdateStatus(ctx, tenant.RoomID, rental.RoomStatusAvailable)
}

func applyTenantUpdate(tenant *rental.Tenant, req UpdateTenantRequest) error {
	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return shared.NewValidationError("Tenant first and last name are required")
		}
		tenant.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return shared.NewValidationError("Tenant first and last name are required")
		}
		tenant.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		tenant.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		tenant.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.MoveInDate != nil {
		tenant.MoveInDate = *req.MoveInDate
	}
	if req.MoveOutDate != nil {
		if err := tenant.SetMoveOut(*req.MoveOutDate); err != nil {
			return err
		}
	}
	if req.Rent != nil {
		if req.Rent.IsNegative() {
			return shared.NewValidationError("Rent and deposit cannot be negative")
		}
		tenant.Rent = *req.Rent
	}
	if req.Deposit != nil {
		if req.Deposit.IsNegative() {
			return shared.NewValidationError("Rent and deposit cannot be negative")
		}
		tenant.Deposit = *req.Deposit
	}
	if req.Status != nil {
		if err := tenant.SetStatus(rental.TenantStatus(*req.Status)); err != nil {
			return err
		}
	}
	tenant.Touch()
	return nil
}
