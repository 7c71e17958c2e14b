// Package rental implements the room, tenant, payment, utility consumption and receipt use cases.
package rental

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/rentdesk/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// roomDetailPaymentLimit is the number of recent payments loaded per tenant on room detail
const roomDetailPaymentLimit = 5

// RoomService handles room-related business operations
type RoomService struct {
	roomRepo        rental.RoomRepository
	businessMetrics *telemetry.RentalMetrics
}

// NewRoomService creates a new RoomService
func NewRoomService(roomRepo rental.RoomRepository) *RoomService {
	return &RoomService{roomRepo: roomRepo}
}

// SetBusinessMetrics sets the business metrics collector
func (s *RoomService) SetBusinessMetrics(m *telemetry.RentalMetrics) {
	s.businessMetrics = m
}

// List lists rooms newest first, optionally filtered by status
func (s *RoomService) List(ctx context.Context, status string) ([]RoomResponse, error) {
	var filter rental.RoomFilter
	if status != "" {
		st := rental.RoomStatus(strings.ToUpper(status))
		if !st.IsValid() {
			return nil, shared.NewValidationError("Invalid room status: " + status)
		}
		filter.Status = &st
	}

	rooms, err := s.roomRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToRoomResponses(rooms), nil
}

// GetByID returns a room with its tenants and their recent payments
func (s *RoomService) GetByID(ctx context.Context, id uuid.UUID) (*RoomResponse, error) {
	room, err := s.roomRepo.FindByIDWithTenants(ctx, id, roomDetailPaymentLimit)
	if err != nil {
		return nil, err
	}
	resp := ToRoomResponse(room)
	return &resp, nil
}

// Create creates a new room
func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest) (*RoomResponse, error) {
	rent := decimal.Zero
	if req.Rent != nil {
		rent = *req.Rent
	}
	room, err := rental.NewRoom(req.Name, req.Address, rent)
	if err != nil {
		return nil, err
	}

	room.Description = strings.TrimSpace(req.Description)
	room.Bedrooms = req.Bedrooms
	room.Bathrooms = req.Bathrooms
	if err := setRoomMeasures(room, req.Deposit, req.Size); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := room.SetStatus(rental.RoomStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	room.SetAmenities(req.Amenities)
	for _, uri := range req.Images {
		room.AddImage(uri)
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordRoomCreated(ctx)
	}

	resp := ToRoomResponse(room)
	return &resp, nil
}

// Update applies a partial update to a room. Room updates never touch tenants.
func (s *RoomService) Update(ctx context.Context, id uuid.UUID, req UpdateRoomRequest) (*RoomResponse, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := room.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		room.Description = strings.TrimSpace(*req.Description)
	}
	if req.Address != nil {
		if strings.TrimSpace(*req.Address) == "" {
			return nil, shared.NewValidationError("Room address is required")
		}
		room.Address = strings.TrimSpace(*req.Address)
	}
	if req.Rent != nil {
		if err := room.SetRent(*req.Rent); err != nil {
			return nil, err
		}
	}
	if err := setRoomMeasures(room, req.Deposit, req.Size); err != nil {
		return nil, err
	}
	if req.Bedrooms != nil {
		room.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		room.Bathrooms = *req.Bathrooms
	}
	if req.Status != nil {
		if err := room.SetStatus(rental.RoomStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Amenities != nil {
		room.SetAmenities(req.Amenities)
	}
	if req.Images != nil {
		room.Images = []string{}
		for _, uri := range req.Images {
			room.AddImage(uri)
		}
	}
	room.Touch()

	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, err
	}

	resp := ToRoomResponse(room)
	return &resp, nil
}

// Delete deletes a room
func (s *RoomService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.roomRepo.Delete(ctx, id)
}

func setRoomMeasures(room *rental.Room, deposit, size *decimal.Decimal) error {
	if deposit != nil {
		if deposit.IsNegative() {
			return shared.NewValidationError("Deposit cannot be negative")
		}
		v := *deposit
		room.Deposit = &v
	}
	if size != nil {
		if size.IsNegative() {
			return shared.NewValidationError("Size cannot be negative")
		}
		v := *size
		room.Size = &v
	}
	return nil
}
