package rental

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/rentdesk/backend/internal/infrastructure/logger"
	"github.com/rentdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// UtilityConsumptionService manages monthly electricity and water readings.
// At most one reading exists per room and period.
type UtilityConsumptionService struct {
	utilityRepo     rental.UtilityConsumptionRepository
	txScope         TransactionScope
	logger          *zap.Logger
	businessMetrics *telemetry.RentalMetrics
}

// NewUtilityConsumptionService creates a new UtilityConsumptionService
func NewUtilityConsumptionService(
	utilityRepo rental.UtilityConsumptionRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *UtilityConsumptionService {
	return &UtilityConsumptionService{
		utilityRepo: utilityRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *UtilityConsumptionService) SetBusinessMetrics(m *telemetry.RentalMetrics) {
	s.businessMetrics = m
}

// List lists readings, most recent period first, optionally for a single room
func (s *UtilityConsumptionService) List(ctx context.Context, roomID *uuid.UUID) ([]UtilityConsumptionResponse, error) {
	records, err := s.utilityRepo.FindAll(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return ToUtilityConsumptionResponses(records), nil
}

// GetByID returns a reading with its room summary
func (s *UtilityConsumptionService) GetByID(ctx context.Context, id uuid.UUID) (*UtilityConsumptionResponse, error) {
	record, err := s.utilityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUtilityConsumptionResponse(record)
	return &resp, nil
}

// Create records the readings of a room for one month.
// Previous readings the caller left out are copied from the prior period's record.
// The duplicate check and the insert run in one SERIALIZABLE transaction.
func (s *UtilityConsumptionService) Create(ctx context.Context, req CreateUtilityConsumptionRequest) (*UtilityConsumptionResponse, error) {
	if req.RoomID == nil || *req.RoomID == uuid.Nil || req.Month == nil || req.Year == nil ||
		req.ElectricNumber == nil || req.WaterNumber == nil {
		return nil, shared.NewValidationError(rental.MsgUtilityMissingFields)
	}
	period, err := rental.NewPeriod(*req.Month, *req.Year)
	if err != nil {
		return nil, err
	}

	record, err := rental.NewUtilityConsumption(*req.RoomID, period, *req.ElectricNumber, *req.WaterNumber)
	if err != nil {
		return nil, err
	}
	if err := record.SetPreviousReadings(req.PreviousElectricNumber, req.PreviousWaterNumber); err != nil {
		return nil, err
	}
	if err := record.SetCosts(req.ElectricCost, req.WaterCost); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		record.SetNotes(*req.Notes)
	}

	err = s.txScope.ExecuteSerializable(ctx, func(repos TransactionalRepositories) error {
		room, err := repos.Rooms().FindByID(ctx, record.RoomID)
		if err != nil {
			return err
		}

		existing, err := repos.Utilities().FindByPeriod(ctx, record.RoomID, period)
		if err != nil && !shared.IsNotFound(err) {
			return err
		}
		if existing != nil {
			return shared.NewConflictError(rental.MsgUtilityDuplicate)
		}

		if record.PreviousElectricNumber == nil || record.PreviousWaterNumber == nil {
			prev, err := repos.Utilities().FindByPeriod(ctx, record.RoomID, period.Previous())
			if err != nil && !shared.IsNotFound(err) {
				return err
			}
			record.FillPreviousFrom(prev)
		}

		if err := repos.Utilities().Create(ctx, record); err != nil {
			return err
		}
		summary := room.Summary()
		record.Room = &summary
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConcurrentUpdate) {
			err = shared.WrapDomainError(shared.CodeConflict, rental.MsgUtilityDuplicate, err)
		}
		if shared.IsConflict(err) {
			logger.FromContextOr(ctx, s.logger).Info("Duplicate utility consumption rejected",
				zap.String("room_id", record.RoomID.String()),
				zap.Int("month", period.Month),
				zap.Int("year", period.Year))
			if s.businessMetrics != nil {
				s.businessMetrics.RecordUtilityConflict(ctx)
			}
		}
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordUtilityRecorded(ctx)
	}

	resp := ToUtilityConsumptionResponse(record)
	return &resp, nil
}

// PreviousReadings resolves the period before (month, year) and returns the room's
// readings for it, if any were recorded.
func (s *UtilityConsumptionService) PreviousReadings(ctx context.Context, roomID uuid.UUID, month, year int) (*PreviousReadingsResponse, error) {
	if roomID == uuid.Nil {
		return nil, shared.NewValidationError("Room is required")
	}
	period, err := rental.NewPeriod(month, year)
	if err != nil {
		return nil, err
	}
	prev := period.Previous()

	resp := &PreviousReadingsResponse{Month: prev.Month, Year: prev.Year}
	record, err := s.utilityRepo.FindByPeriod(ctx, roomID, prev)
	if err != nil {
		if shared.IsNotFound(err) {
			return resp, nil
		}
		return nil, err
	}

	electric := record.ElectricNumber
	water := record.WaterNumber
	resp.Found = true
	resp.PreviousElectricNumber = &electric
	resp.PreviousWaterNumber = &water
	return resp, nil
}

// Update applies a partial update to a reading. Room and period are immutable.
func (s *UtilityConsumptionService) Update(ctx context.Context, id uuid.UUID, req UpdateUtilityConsumptionRequest) (*UtilityConsumptionResponse, error) {
	record, err := s.utilityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := record.SetReadings(req.ElectricNumber, req.WaterNumber); err != nil {
		return nil, err
	}
	if err := record.SetPreviousReadings(req.PreviousElectricNumber, req.PreviousWaterNumber); err != nil {
		return nil, err
	}
	if err := record.SetCosts(req.ElectricCost, req.WaterCost); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		record.SetNotes(*req.Notes)
	}

	if err := s.utilityRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	resp := ToUtilityConsumptionResponse(record)
	return &resp, nil
}

// Delete deletes a reading
func (s *UtilityConsumptionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.utilityRepo.Delete(ctx, id)
}
