package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the settlement state of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusOverdue   PaymentStatus = "OVERDUE"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValid reports whether s is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusCancelled:
		return true
	}
	return false
}

// Payment is a rent charge owed by a tenant
type Payment struct {
	shared.BaseEntity
	TenantID uuid.UUID
	Amount   decimal.Decimal
	DueDate  time.Time
	Date     time.Time
	Status   PaymentStatus
	Method   string
	Notes    string

	// Tenant is populated only by queries that load the association
	Tenant *Tenant
}

// NewPayment creates a pending payment. paidAt defaults to now when zero.
func NewPayment(tenantID uuid.UUID, amount decimal.Decimal, dueDate, paidAt time.Time) (*Payment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("Tenant is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewValidationError("Amount cannot be negative")
	}
	if dueDate.IsZero() {
		return nil, shared.NewValidationError("Due date is required")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Amount:     amount,
		DueDate:    dueDate,
		Date:       paidAt,
		Status:     PaymentStatusPending,
	}, nil
}

// SetStatus changes the payment status
func (p *Payment) SetStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Invalid payment status: " + string(status))
	}
	p.Status = status
	p.Touch()
	return nil
}

// SetAmount changes the payment amount
func (p *Payment) SetAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("Amount cannot be negative")
	}
	p.Amount = amount
	p.Touch()
	return nil
}
