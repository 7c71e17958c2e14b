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

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

func errTenantNotFound() error {
	return shared.NewNotFoundError("Tenant not found")
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errTenantNotFound()
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByIDWithDetails loads a tenant with its room and every payment
func (r *GormTenantRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*rental.Tenant, error) {
	var model models.TenantModel
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date DESC")
		}).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errTenantNotFound()
		}
		return nil, fmt.Errorf("find tenant with details: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists tenants newest first with their room and recent payments
func (r *GormTenantRepository) FindAll(ctx context.Context, filter rental.TenantFilter, paymentLimit int) ([]rental.Tenant, error) {
	query := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date DESC")
		}).
		Order("created_at DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}

	var rows []models.TenantModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	tenants := make([]rental.Tenant, len(rows))
	for i := range rows {
		tenants[i] = *rows[i].ToDomain()
		tenants[i].TrimPayments(paymentLimit)
	}
	return tenants, nil
}

// CountActiveByRoom counts the ACTIVE tenants of a room other than excludeID
func (r *GormTenantRepository) CountActiveByRoom(ctx context.Context, roomID uuid.UUID, excludeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("room_id = ? AND status = ? AND id <> ?", roomID, string(rental.TenantStatusActive), excludeID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count active tenants: %w", err)
	}
	return count, nil
}

// Create inserts a new tenant
func (r *GormTenantRepository) Create(ctx context.Context, tenant *rental.Tenant) error {
	model := models.TenantModelFromDomain(tenant)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

// Save updates an existing tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *rental.Tenant) error {
	model := models.TenantModelFromDomain(tenant)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return fmt.Errorf("save tenant: %w", err)
	}
	return nil
}

// Delete deletes a tenant
func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TenantModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errTenantNotFound()
	}
	return nil
}

// Ensure GormTenantRepository implements TenantRepository
var _ rental.TenantRepository = (*GormTenantRepository)(nil)
