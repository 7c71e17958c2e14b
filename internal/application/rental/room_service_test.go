package rental

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRoomService_Create(t *testing.T) {
	rooms := new(MockRoomRepository)
	svc := NewRoomService(rooms)
	ctx := context.Background()

	rooms.On("Create", ctx, mock.AnythingOfType("*rental.Room")).Return(nil)

	resp, err := svc.Create(ctx, CreateRoomRequest{
		Name:      "  Room 101 ",
		Address:   "12 Harbour Street",
		Rent:      dec("800"),
		Deposit:   dec("1600"),
		Bedrooms:  1,
		Bathrooms: 1,
		Amenities: []string{"wifi", "wifi", " ", "parking"},
		Images:    []string{"https://cdn.example.com/rooms/101/a.jpg"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Room 101", resp.Name)
	assert.Equal(t, "AVAILABLE", resp.Status)
	assert.Equal(t, []string{"wifi", "parking"}, resp.Amenities)
	assert.Len(t, resp.Images, 1)
	require.NotNil(t, resp.Deposit)
	assert.True(t, resp.Deposit.Equal(decimal.NewFromInt(1600)))
	assert.Empty(t, resp.Tenants)
	rooms.AssertExpectations(t)
}

func TestRoomService_Create_WithStatus(t *testing.T) {
	rooms := new(MockRoomRepository)
	svc := NewRoomService(rooms)
	rooms.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), CreateRoomRequest{
		Name: "Room 102", Address: "12 Harbour Street", Rent: dec("700"), Status: "MAINTENANCE",
	})

	require.NoError(t, err)
	assert.Equal(t, "MAINTENANCE", resp.Status)
}

func TestRoomService_Create_NegativeRent(t *testing.T) {
	rooms := new(MockRoomRepository)
	svc := NewRoomService(rooms)

	_, err := svc.Create(context.Background(), CreateRoomRequest{
		Name: "Room 101", Address: "12 Harbour Street", Rent: dec("-1"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	rooms.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomService_GetByID_LoadsRecentPayments(t *testing.T) {
	rooms := new(MockRoomRepository)
	svc := NewRoomService(rooms)
	ctx := context.Background()
	room := testRoom(t)
	room.Tenants = []rental.Tenant{*testTenant(t, room.ID)}

	rooms.On("FindByIDWithTenants", ctx, room.ID, roomDetailPaymentLimit).Return(room, nil)

	resp, err := svc.GetByID(ctx, room.ID)

	require.NoError(t, err)
	require.Len(t, resp.Tenants, 1)
	assert.Equal(t, "Ada", resp.Tenants[0].FirstName)
}

func TestRoomService_List(t *testing.T) {
	rooms := new(MockRoomRepository)
	svc := NewRoomService(rooms)
	ctx := context.Background()
	occupied := rental.RoomStatusOccupied

	rooms.On("FindAll", ctx, rental.RoomFilter{Status: &occupied}).Return([]rental.Room{*testRoom(t)}, nil)

	list, err := svc.List(ctx, "occupied")

	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(ctx, "DEMOLISHED")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestRoomService_Update_Partial(t *testing.T) {
	rooms := new(MockRoomRepository)
	svc := NewRoomService(rooms)
	ctx := context.Background()
	room := testRoom(t)
	room.SetAmenities([]string{"wifi"})

	rooms.On("FindByID", ctx, room.ID).Return(room, nil)
	rooms.On("Save", ctx, room).Return(nil)

	status := "RESERVED"
	resp, err := svc.Update(ctx, room.ID, UpdateRoomRequest{Rent: dec("900"), Status: &status})

	require.NoError(t, err)
	assert.True(t, resp.Rent.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, "RESERVED", resp.Status)
	assert.Equal(t, "Room 101", resp.Name)
	assert.Equal(t, []string{"wifi"}, resp.Amenities)
	rooms.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoomService_Update_BlankAddress(t *testing.T) {
	rooms := new(MockRoomRepository)
	svc := NewRoomService(rooms)
	room := testRoom(t)
	rooms.On("FindByID", mock.Anything, room.ID).Return(room, nil)

	blank := "   "
	_, err := svc.Update(context.Background(), room.ID, UpdateRoomRequest{Address: &blank})

	require.Error(t, err)
	assert.Equal(t, "Room address is required", err.Error())
	rooms.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRoomService_Delete_NotFound(t *testing.T) {
	rooms := new(MockRoomRepository)
	svc := NewRoomService(rooms)
	id := uuid.New()
	rooms.On("Delete", mock.Anything, id).Return(shared.NewNotFoundError("Room not found"))

	err := svc.Delete(context.Background(), id)

	assert.True(t, shared.IsNotFound(err))
}
