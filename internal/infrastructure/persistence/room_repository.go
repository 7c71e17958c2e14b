package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/rentdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRoomRepository implements RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func errRoomNotFound() error {
	return shared.NewNotFoundError("Room not found")
}

// FindByID finds a room by its ID
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Room, error) {
	var model models.RoomModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errRoomNotFound()
		}
		return nil, fmt.Errorf("find room: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByIDWithTenants loads a room with all its tenants and their most recent payments
func (r *GormRoomRepository) FindByIDWithTenants(ctx context.Context, id uuid.UUID, paymentLimit int) (*rental.Room, error) {
	var model models.RoomModel
	err := r.db.WithContext(ctx).
		Preload("Tenants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Tenants.Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date DESC")
		}).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errRoomNotFound()
		}
		return nil, fmt.Errorf("find room with tenants: %w", err)
	}

	room := model.ToDomain()
	for i := range room.Tenants {
		room.Tenants[i].TrimPayments(paymentLimit)
	}
	return room, nil
}

// FindAll lists rooms newest first with their active tenants
func (r *GormRoomRepository) FindAll(ctx context.Context, filter rental.RoomFilter) ([]rental.Room, error) {
	query := r.db.WithContext(ctx).
		Preload("Tenants", "status = ?", string(rental.TenantStatusActive)).
		Order("created_at DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var rows []models.RoomModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms := make([]rental.Room, len(rows))
	for i := range rows {
		rooms[i] = *rows[i].ToDomain()
	}
	return rooms, nil
}

// Create inserts a new room
func (r *GormRoomRepository) Create(ctx context.Context, room *rental.Room) error {
	model := models.RoomModelFromDomain(room)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Save updates an existing room
func (r *GormRoomRepository) Save(ctx context.Context, room *rental.Room) error {
	model := models.RoomModelFromDomain(room)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return fmt.Errorf("save room: %w", err)
	}
	return nil
}

// UpdateStatus sets the room status without touching other columns
func (r *GormRoomRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status rental.RoomStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.RoomModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("update room status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errRoomNotFound()
	}
	return nil
}

// Delete deletes a room
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RoomModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errRoomNotFound()
	}
	return nil
}

// Ensure GormRoomRepository implements RoomRepository
var _ rental.RoomRepository = (*GormRoomRepository)(nil)
