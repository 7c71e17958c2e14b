package rental

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/rentdesk/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
)

// PaymentService handles payment-related business operations
type PaymentService struct {
	paymentRepo     rental.PaymentRepository
	tenantRepo      rental.TenantRepository
	businessMetrics *telemetry.RentalMetrics
	now             func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo rental.PaymentRepository, tenantRepo rental.TenantRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		tenantRepo:  tenantRepo,
		now:         time.Now,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *PaymentService) SetBusinessMetrics(m *telemetry.RentalMetrics) {
	s.businessMetrics = m
}

// List lists payments by due date desc, optionally filtered by status and tenant
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) ([]PaymentResponse, error) {
	var f rental.PaymentFilter
	if filter.Status != nil && *filter.Status != "" {
		st := rental.PaymentStatus(strings.ToUpper(*filter.Status))
		if !st.IsValid() {
			return nil, shared.NewValidationError("Invalid payment status: " + *filter.Status)
		}
		f.Status = &st
	}
	f.TenantID = filter.TenantID

	payments, err := s.paymentRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// GetByID returns a payment with its tenant and room
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// Create records a payment for an existing tenant
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	paidAt := s.now()
	if req.Date != nil {
		paidAt = *req.Date
	}
	payment, err := rental.NewPayment(tenant.ID, valueOrZero(req.Amount), req.DueDate, paidAt)
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := payment.SetStatus(rental.PaymentStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	payment.Method = strings.TrimSpace(req.Method)
	payment.Notes = strings.TrimSpace(req.Notes)

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPayment(ctx, string(payment.Status), payment.Amount)
	}

	payment.Tenant = tenant
	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// Update applies a partial update to a payment
func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if err := payment.SetAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		payment.DueDate = *req.DueDate
	}
	if req.Date != nil {
		payment.Date = *req.Date
	}
	if req.Status != nil {
		if err := payment.SetStatus(rental.PaymentStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Method != nil {
		payment.Method = strings.TrimSpace(*req.Method)
	}
	if req.Notes != nil {
		payment.Notes = strings.TrimSpace(*req.Notes)
	}
	payment.Touch()

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// Delete deletes a payment
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.paymentRepo.Delete(ctx, id)
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
