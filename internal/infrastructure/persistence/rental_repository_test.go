package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	apprental "github.com/rentdesk/backend/internal/application/rental"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/rentdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRentalTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// every connection to :memory: is a new database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func seedRoom(t *testing.T, db *gorm.DB, name string) *rental.Room {
	t.Helper()
	room, err := rental.NewRoom(name, "12 Harbour Street", decimal.NewFromInt(500))
	require.NoError(t, err)
	require.NoError(t, NewGormRoomRepository(db).Create(context.Background(), room))
	return room
}

func seedTenant(t *testing.T, db *gorm.DB, roomID uuid.UUID, first string) *rental.Tenant {
	t.Helper()
	tenant, err := rental.NewTenant(roomID, first, "Doe", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(500), decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db).Create(context.Background(), tenant))
	return tenant
}

func seedPayment(t *testing.T, db *gorm.DB, tenantID uuid.UUID, amount int64, due, paid time.Time, status rental.PaymentStatus) *rental.Payment {
	t.Helper()
	payment, err := rental.NewPayment(tenantID, decimal.NewFromInt(amount), due, paid)
	require.NoError(t, err)
	require.NoError(t, payment.SetStatus(status))
	require.NoError(t, NewGormPaymentRepository(db).Create(context.Background(), payment))
	return payment
}

func TestGormRoomRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find by id", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormRoomRepository(db)

		room, err := rental.NewRoom("Room 101", "12 Harbour Street", decimal.NewFromInt(750))
		require.NoError(t, err)
		room.SetAmenities([]string{"wifi", "balcony"})
		room.AddImage("https://cdn.example.com/rooms/101.jpg")
		require.NoError(t, repo.Create(ctx, room))

		found, err := repo.FindByID(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, "Room 101", found.Name)
		assert.True(t, found.Rent.Equal(decimal.NewFromInt(750)))
		assert.Equal(t, rental.RoomStatusAvailable, found.Status)
		assert.Equal(t, []string{"wifi", "balcony"}, found.Amenities)
		assert.Equal(t, []string{"https://cdn.example.com/rooms/101.jpg"}, found.Images)
	})

	t.Run("find by id returns not found", func(t *testing.T) {
		db := setupRentalTestDB(t)
		_, err := NewGormRoomRepository(db).FindByID(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
		assert.Equal(t, "Room not found", err.Error())
	})

	t.Run("find all filters by status and loads only active tenants", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormRoomRepository(db)

		occupied := seedRoom(t, db, "Occupied")
		seedRoom(t, db, "Vacant")
		require.NoError(t, repo.UpdateStatus(ctx, occupied.ID, rental.RoomStatusOccupied))

		active := seedTenant(t, db, occupied.ID, "Ann")
		gone := seedTenant(t, db, occupied.ID, "Bob")
		require.NoError(t, gone.SetStatus(rental.TenantStatusMovedOut))
		require.NoError(t, NewGormTenantRepository(db).Save(ctx, gone))

		all, err := repo.FindAll(ctx, rental.RoomFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		status := rental.RoomStatusOccupied
		rooms, err := repo.FindAll(ctx, rental.RoomFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, occupied.ID, rooms[0].ID)
		require.Len(t, rooms[0].Tenants, 1)
		assert.Equal(t, active.ID, rooms[0].Tenants[0].ID)
	})

	t.Run("find with tenants trims payments", func(t *testing.T) {
		db := setupRentalTestDB(t)
		room := seedRoom(t, db, "Room 7")
		tenant := seedTenant(t, db, room.ID, "Ann")
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 7; i++ {
			due := base.AddDate(0, i, 0)
			seedPayment(t, db, tenant.ID, 500, due, due, rental.PaymentStatusPaid)
		}

		found, err := NewGormRoomRepository(db).FindByIDWithTenants(ctx, room.ID, 5)
		require.NoError(t, err)
		require.Len(t, found.Tenants, 1)
		payments := found.Tenants[0].Payments
		require.Len(t, payments, 5)
		assert.True(t, payments[0].DueDate.After(payments[4].DueDate))
	})

	t.Run("update status and delete report missing rooms", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormRoomRepository(db)

		err := repo.UpdateStatus(ctx, uuid.New(), rental.RoomStatusOccupied)
		assert.True(t, shared.IsNotFound(err))

		room := seedRoom(t, db, "Room 9")
		require.NoError(t, repo.Delete(ctx, room.ID))
		assert.True(t, shared.IsNotFound(repo.Delete(ctx, room.ID)))
	})
}

func TestGormTenantRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("count active excludes the given tenant", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormTenantRepository(db)
		room := seedRoom(t, db, "Room 1")
		first := seedTenant(t, db, room.ID, "Ann")
		second := seedTenant(t, db, room.ID, "Bob")

		count, err := repo.CountActiveByRoom(ctx, room.ID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		require.NoError(t, repo.Delete(ctx, second.ID))
		count, err = repo.CountActiveByRoom(ctx, room.ID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("find all filters by room and keeps recent payments", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormTenantRepository(db)
		roomA := seedRoom(t, db, "A")
		roomB := seedRoom(t, db, "B")
		tenant := seedTenant(t, db, roomA.ID, "Ann")
		seedTenant(t, db, roomB.ID, "Bob")
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 4; i++ {
			seedPayment(t, db, tenant.ID, 100, base.AddDate(0, i, 0), base, rental.PaymentStatusPending)
		}

		tenants, err := repo.FindAll(ctx, rental.TenantFilter{RoomID: &roomA.ID}, 3)
		require.NoError(t, err)
		require.Len(t, tenants, 1)
		assert.Equal(t, "Ann", tenants[0].FirstName)
		require.NotNil(t, tenants[0].Room)
		assert.Equal(t, "A", tenants[0].Room.Name)
		assert.Len(t, tenants[0].Payments, 3)
	})

	t.Run("find with details loads every payment", func(t *testing.T) {
		db := setupRentalTestDB(t)
		room := seedRoom(t, db, "A")
		tenant := seedTenant(t, db, room.ID, "Ann")
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 4; i++ {
			seedPayment(t, db, tenant.ID, 100, base.AddDate(0, i, 0), base, rental.PaymentStatusPaid)
		}

		found, err := NewGormTenantRepository(db).FindByIDWithDetails(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Len(t, found.Payments, 4)
		require.NotNil(t, found.Room)
		assert.Equal(t, room.ID, found.Room.ID)
	})

	t.Run("missing tenant", func(t *testing.T) {
		db := setupRentalTestDB(t)
		_, err := NewGormTenantRepository(db).FindByID(ctx, uuid.New())
		assert.True(t, shared.IsNotFound(err))
		assert.Equal(t, "Tenant not found", err.Error())
	})
}

func TestGormPaymentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("find by room spans every tenant ordered by paid date", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormPaymentRepository(db)
		room := seedRoom(t, db, "A")
		other := seedRoom(t, db, "B")
		former := seedTenant(t, db, room.ID, "Ann")
		current := seedTenant(t, db, room.ID, "Bob")
		stranger := seedTenant(t, db, other.ID, "Cid")

		jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
		feb := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
		mar := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
		seedPayment(t, db, former.ID, 25, jan, jan, rental.PaymentStatusPaid)
		seedPayment(t, db, current.ID, 15, mar, mar, rental.PaymentStatusPending)
		seedPayment(t, db, stranger.ID, 99, feb, feb, rental.PaymentStatusPaid)

		payments, err := repo.FindByRoom(ctx, room.ID)
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(15)))
		assert.True(t, payments[1].Amount.Equal(decimal.NewFromInt(25)))
	})

	t.Run("find all filters and joins tenant with room", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormPaymentRepository(db)
		room := seedRoom(t, db, "A")
		tenant := seedTenant(t, db, room.ID, "Ann")
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		seedPayment(t, db, tenant.ID, 25, now, now, rental.PaymentStatusPaid)
		seedPayment(t, db, tenant.ID, 15, now.AddDate(0, 1, 0), now, rental.PaymentStatusOverdue)

		status := rental.PaymentStatusOverdue
		payments, err := repo.FindAll(ctx, rental.PaymentFilter{Status: &status, TenantID: &tenant.ID})
		require.NoError(t, err)
		require.Len(t, payments, 1)
		require.NotNil(t, payments[0].Tenant)
		require.NotNil(t, payments[0].Tenant.Room)
		assert.Equal(t, "A", payments[0].Tenant.Room.Name)
	})

	t.Run("missing payment", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormPaymentRepository(db)
		_, err := repo.FindByID(ctx, uuid.New())
		assert.True(t, shared.IsNotFound(err))
		assert.True(t, shared.IsNotFound(repo.Delete(ctx, uuid.New())))
	})
}

func TestGormUtilityConsumptionRepository(t *testing.T) {
	ctx := context.Background()

	newReading := func(t *testing.T, roomID uuid.UUID, month, year int, electric, water int64) *rental.UtilityConsumption {
		period, err := rental.NewPeriod(month, year)
		require.NoError(t, err)
		record, err := rental.NewUtilityConsumption(roomID, period, decimal.NewFromInt(electric), decimal.NewFromInt(water))
		require.NoError(t, err)
		return record
	}

	t.Run("duplicate period is a conflict", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormUtilityConsumptionRepository(db)
		room := seedRoom(t, db, "A")

		require.NoError(t, repo.Create(ctx, newReading(t, room.ID, 11, 2025, 100, 50)))
		err := repo.Create(ctx, newReading(t, room.ID, 11, 2025, 120, 60))
		require.Error(t, err)
		assert.True(t, shared.IsConflict(err))
		assert.Equal(t, rental.MsgUtilityDuplicate, err.Error())
	})

	t.Run("find by period and by id", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormUtilityConsumptionRepository(db)
		room := seedRoom(t, db, "A")
		record := newReading(t, room.ID, 11, 2025, 100, 50)
		require.NoError(t, repo.Create(ctx, record))

		found, err := repo.FindByPeriod(ctx, room.ID, rental.Period{Month: 11, Year: 2025})
		require.NoError(t, err)
		assert.True(t, found.ElectricNumber.Equal(decimal.NewFromInt(100)))

		_, err = repo.FindByPeriod(ctx, room.ID, rental.Period{Month: 10, Year: 2025})
		assert.True(t, shared.IsNotFound(err))

		byID, err := repo.FindByID(ctx, record.ID)
		require.NoError(t, err)
		require.NotNil(t, byID.Room)
		assert.Equal(t, rental.RoomSummary{ID: room.ID, Name: "A", Address: "12 Harbour Street"}, *byID.Room)
	})

	t.Run("find all orders by period desc", func(t *testing.T) {
		db := setupRentalTestDB(t)
		repo := NewGormUtilityConsumptionRepository(db)
		roomA := seedRoom(t, db, "A")
		roomB := seedRoom(t, db, "B")
		require.NoError(t, repo.Create(ctx, newReading(t, roomA.ID, 12, 2024, 10, 10)))
		require.NoError(t, repo.Create(ctx, newReading(t, roomA.ID, 2, 2025, 30, 30)))
		require.NoError(t, repo.Create(ctx, newReading(t, roomA.ID, 1, 2025, 20, 20)))
		require.NoError(t, repo.Create(ctx, newReading(t, roomB.ID, 1, 2025, 5, 5)))

		records, err := repo.FindAll(ctx, &roomA.ID)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, rental.Period{Month: 2, Year: 2025}, records[0].Period)
		assert.Equal(t, rental.Period{Month: 1, Year: 2025}, records[1].Period)
		assert.Equal(t, rental.Period{Month: 12, Year: 2024}, records[2].Period)

		all, err := repo.FindAll(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("delete missing record", func(t *testing.T) {
		db := setupRentalTestDB(t)
		err := NewGormUtilityConsumptionRepository(db).Delete(ctx, uuid.New())
		assert.True(t, shared.IsNotFound(err))
		assert.Equal(t, rental.MsgUtilityNotFound, err.Error())
	})
}

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db := setupRentalTestDB(t)
		room := seedRoom(t, db, "A")
		scope := NewGormTransactionScope(db)

		err := scope.ExecuteSerializable(ctx, func(repos apprental.TransactionalRepositories) error {
			return repos.Rooms().UpdateStatus(ctx, room.ID, rental.RoomStatusOccupied)
		})
		require.NoError(t, err)

		found, err := NewGormRoomRepository(db).FindByID(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, rental.RoomStatusOccupied, found.Status)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := setupRentalTestDB(t)
		room := seedRoom(t, db, "A")
		scope := NewGormTransactionScope(db)

		err := scope.Execute(ctx, func(repos apprental.TransactionalRepositories) error {
			if err := repos.Rooms().UpdateStatus(ctx, room.ID, rental.RoomStatusOccupied); err != nil {
				return err
			}
			return shared.NewValidationError("abort")
		})
		require.Error(t, err)

		found, err := NewGormRoomRepository(db).FindByID(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, rental.RoomStatusAvailable, found.Status)
	})
}
