package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/rentdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUtilityConsumptionRepository implements UtilityConsumptionRepository using GORM
type GormUtilityConsumptionRepository struct {
	db *gorm.DB
}

// NewGormUtilityConsumptionRepository creates a new GormUtilityConsumptionRepository
func NewGormUtilityConsumptionRepository(db *gorm.DB) *GormUtilityConsumptionRepository {
	return &GormUtilityConsumptionRepository{db: db}
}

// FindByID finds a reading with its room summary
func (r *GormUtilityConsumptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.UtilityConsumption, error) {
	var model models.UtilityConsumptionModel
	err := r.db.WithContext(ctx).
		Preload("Room", selectRoomSummary).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(rental.MsgUtilityNotFound)
		}
		return nil, fmt.Errorf("find utility consumption: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists readings, most recent period first
func (r *GormUtilityConsumptionRepository) FindAll(ctx context.Context, roomID *uuid.UUID) ([]rental.UtilityConsumption, error) {
	query := r.db.WithContext(ctx).
		Preload("Room", selectRoomSummary).
		Order("year DESC").
		Order("month DESC")
	if roomID != nil {
		query = query.Where("room_id = ?", *roomID)
	}

	var rows []models.UtilityConsumptionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list utility consumptions: %w", err)
	}

	records := make([]rental.UtilityConsumption, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

// FindByPeriod finds the reading of a room for the given month and year
func (r *GormUtilityConsumptionRepository) FindByPeriod(ctx context.Context, roomID uuid.UUID, period rental.Period) (*rental.UtilityConsumption, error) {
	var model models.UtilityConsumptionModel
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND month = ? AND year = ?", roomID, period.Month, period.Year).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(rental.MsgUtilityNotFound)
		}
		return nil, fmt.Errorf("find utility consumption by period: %w", err)
	}
	return model.ToDomain(), nil
}

// Create inserts a new reading. The (room_id, month, year) unique index turns duplicates into a conflict.
func (r *GormUtilityConsumptionRepository) Create(ctx context.Context, record *rental.UtilityConsumption) error {
	model := models.UtilityConsumptionModelFromDomain(record)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.WrapDomainError(shared.CodeConflict, rental.MsgUtilityDuplicate, err)
		}
		return fmt.Errorf("create utility consumption: %w", err)
	}
	return nil
}

// Save updates an existing reading
func (r *GormUtilityConsumptionRepository) Save(ctx context.Context, record *rental.UtilityConsumption) error {
	model := models.UtilityConsumptionModelFromDomain(record)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.WrapDomainError(shared.CodeConflict, rental.MsgUtilityDuplicate, err)
		}
		return fmt.Errorf("save utility consumption: %w", err)
	}
	return nil
}

// Delete deletes a reading
func (r *GormUtilityConsumptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UtilityConsumptionModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete utility consumption: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(rental.MsgUtilityNotFound)
	}
	return nil
}

func selectRoomSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "address")
}

// Ensure GormUtilityConsumptionRepository implements UtilityConsumptionRepository
var _ rental.UtilityConsumptionRepository = (*GormUtilityConsumptionRepository)(nil)
