package rental

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTenantServiceForTest() (*TenantService, *MockRoomRepository, *MockTenantRepository) {
	rooms := new(MockRoomRepository)
	tenants := new(MockTenantRepository)
	scope := NewNoOpTransactionScope(rooms, tenants, nil, nil)
	return NewTenantService(tenants, scope, zap.NewNop()), rooms, tenants
}

func testTenant(t *testing.T, roomID uuid.UUID) *rental.Tenant {
	t.Helper()
	tenant, err := rental.NewTenant(roomID, "Ada", "Lovelace",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(800), decimal.NewFromInt(1600))
	require.NoError(t, err)
	return tenant
}

func validTenantRequest(roomID uuid.UUID) CreateTenantRequest {
	return CreateTenantRequest{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		RoomID:     roomID,
		MoveInDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Rent:       dec("800"),
		Deposit:    dec("1600"),
	}
}

func TestTenantService_Create_MarksRoomOccupied(t *testing.T) {
	svc, rooms, tenants := newTenantServiceForTest()
	ctx := context.Background()
	room := testRoom(t)
	require.NoError(t, room.SetStatus(rental.RoomStatusMaintenance))

	rooms.On("FindByID", ctx, room.ID).Return(room, nil)
	tenants.On("Create", ctx, mock.AnythingOfType("*rental.Tenant")).Return(nil)
	rooms.On("UpdateStatus", ctx, room.ID, rental.RoomStatusOccupied).Return(nil)

	resp, err := svc.Create(ctx, validTenantRequest(room.ID))

	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.Equal(t, room.ID, resp.RoomID)
	require.NotNil(t, resp.Room)
	assert.Equal(t, "OCCUPIED", resp.Room.Status)
	rooms.AssertExpectations(t)
	tenants.AssertExpectations(t)
}

func TestTenantService_Create_UnknownRoom(t *testing.T) {
	svc, rooms, tenants := newTenantServiceForTest()
	ctx := context.Background()
	roomID := uuid.New()

	rooms.On("FindByID", ctx, roomID).Return(nil, shared.NewNotFoundError("Room not found"))

	_, err := svc.Create(ctx, validTenantRequest(roomID))

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	tenants.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	rooms.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestTenantService_Create_RoomUpdateFailurePropagates(t *testing.T) {
	svc, rooms, tenants := newTenantServiceForTest()
	ctx := context.Background()
	room := testRoom(t)

	rooms.On("FindByID", ctx, room.ID).Return(room, nil)
	tenants.On("Create", ctx, mock.Anything).Return(nil)
	rooms.On("UpdateStatus", ctx, room.ID, rental.RoomStatusOccupied).Return(errors.New("connection reset"))

	_, err := svc.Create(ctx, validTenantRequest(room.ID))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestTenantService_Create_InvalidMoveOut(t *testing.T) {
	svc, rooms, _ := newTenantServiceForTest()
	req := validTenantRequest(uuid.New())
	moveOut := req.MoveInDate.AddDate(0, 0, -1)
	req.MoveOutDate = &moveOut

	_, err := svc.Create(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	rooms.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTenantService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		otherActive   int64
		expectRelease bool
	}{
		{name: "last active tenant releases the room", otherActive: 0, expectRelease: true},
		{name: "room stays occupied while others remain", otherActive: 1, expectRelease: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rooms, tenants := newTenantServiceForTest()
			ctx := context.Background()
			roomID := uuid.New()
			tenant := testTenant(t, roomID)

			tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
			tenants.On("CountActiveByRoom", ctx, roomID, tenant.ID).Return(tt.otherActive, nil)
			tenants.On("Delete", ctx, tenant.ID).Return(nil)
			if tt.expectRelease {
				rooms.On("UpdateStatus", ctx, roomID, rental.RoomStatusAvailable).Return(nil)
			}

			err := svc.Delete(ctx, tenant.ID)

			require.NoError(t, err)
			tenants.AssertExpectations(t)
			if tt.expectRelease {
				rooms.AssertExpectations(t)
			} else {
				rooms.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestTenantService_Delete_NotFound(t *testing.T) {
	svc, _, tenants := newTenantServiceForTest()
	id := uuid.New()
	tenants.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("Tenant not found"))

	err := svc.Delete(context.Background(), id)

	require.Error(t, err)
	assert.Equal(t, "Tenant not found", err.Error())
	tenants.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTenantService_Delete_ConcurrentUpdateSurfacesAsFailure(t *testing.T) {
	tenants := new(MockTenantRepository)
	svc := NewTenantService(tenants, failingTransactionScope{err: ErrConcurrentUpdate}, zap.NewNop())

	err := svc.Delete(context.Background(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	var domainErr *shared.DomainError
	assert.False(t, errors.As(err, &domainErr))
}

func TestTenantService_Update_Deactivation(t *testing.T) {
	svc, rooms, tenants := newTenantServiceForTest()
	ctx := context.Background()
	roomID := uuid.New()
	tenant := testTenant(t, roomID)

	tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenants.On("Save", ctx, tenant).Return(nil)
	tenants.On("CountActiveByRoom", ctx, roomID, tenant.ID).Return(int64(0), nil)
	rooms.On("UpdateStatus", ctx, roomID, rental.RoomStatusAvailable).Return(nil)

	status := "MOVED_OUT"
	resp, err := svc.Update(ctx, tenant.ID, UpdateTenantRequest{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, "MOVED_OUT", resp.Status)
	rooms.AssertExpectations(t)
}

func TestTenantService_Update_Reactivation(t *testing.T) {
	svc, rooms, tenants := newTenantServiceForTest()
	ctx := context.Background()
	roomID := uuid.New()
	tenant := testTenant(t, roomID)
	require.NoError(t, tenant.SetStatus(rental.TenantStatusInactive))

	tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenants.On("Save", ctx, tenant).Return(nil)
	rooms.On("UpdateStatus", ctx, roomID, rental.RoomStatusOccupied).Return(nil)

	status := "ACTIVE"
	_, err := svc.Update(ctx, tenant.ID, UpdateTenantRequest{Status: &status})

	require.NoError(t, err)
	rooms.AssertExpectations(t)
	tenants.AssertNotCalled(t, "CountActiveByRoom", mock.Anything, mock.Anything, mock.Anything)
}

func TestTenantService_Update_FieldsOnly(t *testing.T) {
	svc, rooms, tenants := newTenantServiceForTest()
	ctx := context.Background()
	tenant := testTenant(t, uuid.New())

	tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenants.On("Save", ctx, tenant).Return(nil)

	phone := " +1 555 0100 "
	resp, err := svc.Update(ctx, tenant.ID, UpdateTenantRequest{Phone: &phone, Rent: dec("850")})

	require.NoError(t, err)
	assert.Equal(t, "+1 555 0100", resp.Phone)
	assert.True(t, resp.Rent.Equal(decimal.NewFromInt(850)))
	rooms.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestTenantService_List(t *testing.T) {
	svc, _, tenants := newTenantServiceForTest()
	ctx := context.Background()
	roomID := uuid.New()
	active := rental.TenantStatusActive

	tenants.On("FindAll", ctx, rental.TenantFilter{Status: &active, RoomID: &roomID}, tenantListPaymentLimit).
		Return([]rental.Tenant{*testTenant(t, roomID)}, nil)

	status := "active"
	list, err := svc.List(ctx, TenantListFilter{Status: &status, RoomID: &roomID})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].FirstName)
}

func TestTenantService_List_InvalidStatus(t *testing.T) {
	svc, _, tenants := newTenantServiceForTest()
	status := "EVICTED"

	_, err := svc.List(context.Background(), TenantListFilter{Status: &status})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	tenants.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything)
}
