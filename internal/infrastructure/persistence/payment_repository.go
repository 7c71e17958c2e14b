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

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func errPaymentNotFound() error {
	return shared.NewNotFoundError("Payment not found")
}

// FindByID finds a payment with its tenant and the tenant's room
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Payment, error) {
	var model models.PaymentModel
	err := r.db.WithContext(ctx).
		Preload("Tenant.Room").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPaymentNotFound()
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists payments by due date, latest first
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter rental.PaymentFilter) ([]rental.Payment, error) {
	query := r.db.WithContext(ctx).
		Preload("Tenant.Room").
		Order("due_date DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}

	var rows []models.PaymentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return paymentsToDomain(rows), nil
}

// FindByRoom lists the payments of every tenant that ever leased the room, by paid date desc
func (r *GormPaymentRepository) FindByRoom(ctx context.Context, roomID uuid.UUID) ([]rental.Payment, error) {
	var rows []models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("tenant_id IN (?)", r.db.Model(&models.TenantModel{}).Select("id").Where("room_id = ?", roomID)).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list room payments: %w", err)
	}
	return paymentsToDomain(rows), nil
}

// Create inserts a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *rental.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// Save updates an existing payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *rental.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

// Delete deletes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errPaymentNotFound()
	}
	return nil
}

func paymentsToDomain(rows []models.PaymentModel) []rental.Payment {
	payments := make([]rental.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ rental.PaymentRepository = (*GormPaymentRepository)(nil)
