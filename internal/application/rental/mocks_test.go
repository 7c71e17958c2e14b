package rental

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/stretchr/testify/mock"
)

// MockRoomRepository is a mock implementation of RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByIDWithTenants(ctx context.Context, id uuid.UUID, paymentLimit int) (*rental.Room, error) {
	args := m.Called(ctx, id, paymentLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Room), args.Error(1)
}

func (m *MockRoomRepository) FindAll(ctx context.Context, filter rental.RoomFilter) ([]rental.Room, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Room), args.Error(1)
}

func (m *MockRoomRepository) Create(ctx context.Context, room *rental.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) Save(ctx context.Context, room *rental.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status rental.RoomStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTenantRepository is a mock implementation of TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*rental.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter rental.TenantFilter, paymentLimit int) ([]rental.Tenant, error) {
	args := m.Called(ctx, filter, paymentLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Tenant), args.Error(1)
}

func (m *MockTenantRepository) CountActiveByRoom(ctx context.Context, roomID uuid.UUID, excludeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, roomID, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *rental.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *rental.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter rental.PaymentFilter) ([]rental.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByRoom(ctx context.Context, roomID uuid.UUID) ([]rental.Payment, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *rental.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *rental.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUtilityConsumptionRepository is a mock implementation of UtilityConsumptionRepository
type MockUtilityConsumptionRepository struct {
	mock.Mock
}

func (m *MockUtilityConsumptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.UtilityConsumption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.UtilityConsumption), args.Error(1)
}

func (m *MockUtilityConsumptionRepository) FindAll(ctx context.Context, roomID *uuid.UUID) ([]rental.UtilityConsumption, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.UtilityConsumption), args.Error(1)
}

func (m *MockUtilityConsumptionRepository) FindByPeriod(ctx context.Context, roomID uuid.UUID, period rental.Period) (*rental.UtilityConsumption, error) {
	args := m.Called(ctx, roomID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.UtilityConsumption), args.Error(1)
}

func (m *MockUtilityConsumptionRepository) Create(ctx context.Context, record *rental.UtilityConsumption) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUtilityConsumptionRepository) Save(ctx context.Context, record *rental.UtilityConsumption) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUtilityConsumptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// failingTransactionScope reports err from every transaction without running fn
type failingTransactionScope struct {
	err error
}

func (s failingTransactionScope) Execute(context.Context, func(TransactionalRepositories) error) error {
	return s.err
}

func (s failingTransactionScope) ExecuteSerializable(context.Context, func(TransactionalRepositories) error) error {
	return s.err
}

var (
	_ rental.RoomRepository               = (*MockRoomRepository)(nil)
	_ rental.TenantRepository             = (*MockTenantRepository)(nil)
	_ rental.PaymentRepository            = (*MockPaymentRepository)(nil)
	_ rental.UtilityConsumptionRepository = (*MockUtilityConsumptionRepository)(nil)
	_ TransactionScope                    = failingTransactionScope{}
)
