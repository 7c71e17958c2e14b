package rental

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPaymentServiceForTest(now time.Time) (*PaymentService, *MockPaymentRepository, *MockTenantRepository) {
	payments := new(MockPaymentRepository)
	tenants := new(MockTenantRepository)
	svc := NewPaymentService(payments, tenants)
	svc.now = func() time.Time { return now }
	return svc, payments, tenants
}

func TestPaymentService_Create_Defaults(t *testing.T) {
	now := time.Date(2025, 12, 3, 10, 0, 0, 0, time.UTC)
	svc, payments, tenants := newPaymentServiceForTest(now)
	ctx := context.Background()
	tenant := testTenant(t, uuid.New())

	tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	payments.On("Create", ctx, mock.AnythingOfType("*rental.Payment")).Return(nil)

	resp, err := svc.Create(ctx, CreatePaymentRequest{
		TenantID: tenant.ID,
		Amount:   dec("800"),
		DueDate:  time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		Method:   " bank transfer ",
	})

	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, now, resp.Date)
	assert.Equal(t, "bank transfer", resp.Method)
	require.NotNil(t, resp.Tenant)
	assert.Equal(t, tenant.ID, resp.Tenant.ID)
	payments.AssertExpectations(t)
}

func TestPaymentService_Create_ExplicitStatusAndDate(t *testing.T) {
	svc, payments, tenants := newPaymentServiceForTest(time.Now())
	tenant := testTenant(t, uuid.New())
	paid := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)

	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	payments.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), CreatePaymentRequest{
		TenantID: tenant.ID,
		Amount:   dec("25"),
		DueDate:  time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		Date:     &paid,
		Status:   "PAID",
	})

	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.Status)
	assert.Equal(t, paid, resp.Date)
}

func TestPaymentService_Create_UnknownTenant(t *testing.T) {
	svc, payments, tenants := newPaymentServiceForTest(time.Now())
	id := uuid.New()
	tenants.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("Tenant not found"))

	_, err := svc.Create(context.Background(), CreatePaymentRequest{TenantID: id, Amount: dec("1"), DueDate: time.Now()})

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_Update(t *testing.T) {
	svc, payments, _ := newPaymentServiceForTest(time.Now())
	ctx := context.Background()
	payment, err := rental.NewPayment(uuid.New(), decimal.NewFromInt(800), time.Now(), time.Now())
	require.NoError(t, err)

	payments.On("FindByID", ctx, payment.ID).Return(payment, nil)
	payments.On("Save", ctx, payment).Return(nil)

	status := "OVERDUE"
	resp, err := svc.Update(ctx, payment.ID, UpdatePaymentRequest{Status: &status, Amount: dec("750")})

	require.NoError(t, err)
	assert.Equal(t, "OVERDUE", resp.Status)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(750)))
}

func TestPaymentService_Update_InvalidAmount(t *testing.T) {
	svc, payments, _ := newPaymentServiceForTest(time.Now())
	payment, err := rental.NewPayment(uuid.New(), decimal.NewFromInt(800), time.Now(), time.Now())
	require.NoError(t, err)
	payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)

	_, err = svc.Update(context.Background(), payment.ID, UpdatePaymentRequest{Amount: dec("-5")})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPaymentService_List(t *testing.T) {
	svc, payments, _ := newPaymentServiceForTest(time.Now())
	ctx := context.Background()
	tenantID := uuid.New()
	paid := rental.PaymentStatusPaid

	payments.On("FindAll", ctx, rental.PaymentFilter{Status: &paid, TenantID: &tenantID}).Return([]rental.Payment{}, nil)

	status := "PAID"
	list, err := svc.List(ctx, PaymentListFilter{Status: &status, TenantID: &tenantID})

	require.NoError(t, err)
	assert.Empty(t, list)
	payments.AssertExpectations(t)
}
