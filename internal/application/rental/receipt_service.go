package rental

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
)

// ReceiptService assembles the read-only receipt of a room
type ReceiptService struct {
	roomRepo    rental.RoomRepository
	paymentRepo rental.PaymentRepository
	now         func() time.Time
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(roomRepo rental.RoomRepository, paymentRepo rental.PaymentRepository) *ReceiptService {
	return &ReceiptService{
		roomRepo:    roomRepo,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// Get returns the room's receipt: the active tenant, every payment made by any of the
// room's tenants (paid date desc) and the payment statistics.
func (s *ReceiptService) Get(ctx context.Context, roomID uuid.UUID) (*ReceiptResponse, error) {
	room, err := s.roomRepo.FindByIDWithTenants(ctx, roomID, 0)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	receipt := rental.BuildReceipt(*room, payments, s.now())
	resp := ToReceiptResponse(receipt)
	return &resp, nil
}
