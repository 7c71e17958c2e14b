package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/rentdesk/backend/internal/application/identity"
	apprental "github.com/rentdesk/backend/internal/application/rental"
	identitydomain "github.com/rentdesk/backend/internal/domain/identity"
	"github.com/rentdesk/backend/internal/infrastructure/auth"
	"github.com/rentdesk/backend/internal/infrastructure/config"
	"github.com/rentdesk/backend/internal/infrastructure/persistence"
	"github.com/rentdesk/backend/internal/interfaces/http/handler"
	"github.com/rentdesk/backend/internal/interfaces/http/middleware"
	"github.com/rentdesk/backend/internal/interfaces/http/router"
	"github.com/rentdesk/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	apiBase       = "/api/v1"
	adminUser     = "admin"
	adminPassword = "correct horse battery staple"
)

// newAPI wires the full rental API the way the server does, with Postgres
// persistence and Redis-backed session revocation.
func newAPI(t *testing.T) (*testutil.APIClient, *TestDB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	tdb := NewTestDB(t)
	sessions := auth.NewRedisSessionStoreWithClient(NewTestRedis(t))
	log := zap.NewNop()

	roomRepo := persistence.NewGormRoomRepository(tdb.DB)
	tenantRepo := persistence.NewGormTenantRepository(tdb.DB)
	paymentRepo := persistence.NewGormPaymentRepository(tdb.DB)
	utilityRepo := persistence.NewGormUtilityConsumptionRepository(tdb.DB)
	txScope := persistence.NewGormTransactionScope(tdb.DB)

	operator, err := identitydomain.NewOperatorWithPassword(adminUser, adminPassword)
	require.NoError(t, err)
	tokens := auth.NewSessionTokenService(config.JWTConfig{
		Secret:            "integration-test-secret-with-enough-entropy",
		SessionExpiration: time.Hour,
		Issuer:            "rentdesk-test",
	})
	authService := identityapp.NewAuthService(operator, tokens, sessions, log)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(middleware.SessionWithConfig(middleware.SessionConfig{
			Authenticator: authService,
			SkipPaths:     []string{apiBase + router.LoginPath},
		})),
	)
	for _, group := range router.RentalGroups(router.RentalHandlers{
		Auth: handler.NewAuthHandler(authService),
		Rooms: handler.NewRoomHandler(
			apprental.NewRoomService(roomRepo),
			apprental.NewReceiptService(roomRepo, paymentRepo),
			nil,
			0,
		),
		Tenants:   handler.NewTenantHandler(apprental.NewTenantService(tenantRepo, txScope, log)),
		Payments:  handler.NewPaymentHandler(apprental.NewPaymentService(paymentRepo, tenantRepo)),
		Utilities: handler.NewUtilityConsumptionHandler(apprental.NewUtilityConsumptionService(utilityRepo, txScope, log)),
	}) {
		r.Register(group)
	}
	r.Setup()

	return testutil.NewAPIClient(t, engine, apiBase), tdb
}

func login(t *testing.T, c *testutil.APIClient) {
	t.Helper()
	var resp handler.LoginResponse
	c.Expect(http.StatusOK, http.MethodPost, router.LoginPath, map[string]string{
		"username": adminUser,
		"password": adminPassword,
	}, &resp)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, adminUser, resp.Session.Username)
	c.Token = resp.Token
}

func TestAPI_RequiresSession(t *testing.T) {
	client, _ := newAPI(t)

	env := client.Expect(http.StatusUnauthorized, http.MethodGet, "/rooms", nil, nil)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	env = client.Expect(http.StatusUnauthorized, http.MethodPost, router.LoginPath, map[string]string{
		"username": adminUser,
		"password": "wrong",
	}, nil)
	assert.Equal(t, "Invalid username or password", env.Error)

	client.Token = "not-a-token"
	client.Expect(http.StatusUnauthorized, http.MethodGet, "/rooms", nil, nil)
}

func TestAPI_LogoutRevokesSession(t *testing.T) {
	client, _ := newAPI(t)
	login(t, client)

	var info identityapp.SessionInfo
	client.Expect(http.StatusOK, http.MethodGet, "/auth/session", nil, &info)
	assert.Equal(t, adminUser, info.Username)

	client.Expect(http.StatusOK, http.MethodPost, "/auth/logout", nil, nil)

	env := client.Expect(http.StatusUnauthorized, http.MethodGet, "/rooms", nil, nil)
	assert.Equal(t, "Session has been logged out", env.Error)

	// A new login is unaffected by the earlier revocation
	login(t, client)
	client.Expect(http.StatusOK, http.MethodGet, "/rooms", nil, nil)
}

func TestAPI_RentalFlow(t *testing.T) {
	client, tdb := newAPI(t)
	login(t, client)

	// Rooms
	var room apprental.RoomResponse
	client.Expect(http.StatusCreated, http.MethodPost, "/rooms", map[string]any{
		"name":      "Room 7A",
		"address":   "7 Lotus Lane",
		"rent":      3500000,
		"deposit":   7000000,
		"bedrooms":  1,
		"bathrooms": 1,
		"amenities": []string{"balcony", "wifi", "balcony"},
	}, &room)
	assert.Equal(t, "AVAILABLE", room.Status)
	assert.Equal(t, []string{"balcony", "wifi"}, room.Amenities)
	assert.True(t, room.Rent.Equal(decimal.NewFromInt(3500000)))

	env := client.Expect(http.StatusBadRequest, http.MethodPost, "/rooms", map[string]any{
		"name":    "Bad status",
		"address": "1 Nowhere",
		"rent":    1,
		"status":  "HAUNTED",
	}, nil)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	// Tenants
	var tenant apprental.TenantResponse
	client.Expect(http.StatusCreated, http.MethodPost, "/tenants", map[string]any{
		"firstName":  "Mai",
		"lastName":   "Pham",
		"email":      "mai@example.com",
		"roomId":     room.ID,
		"moveInDate": "2024-01-01T00:00:00Z",
		"rent":       3500000,
		"deposit":    7000000,
	}, &tenant)
	assert.Equal(t, "ACTIVE", tenant.Status)
	require.NotNil(t, tenant.Room)
	assert.Equal(t, "OCCUPIED", tenant.Room.Status)

	var occupied []apprental.RoomResponse
	client.Expect(http.StatusOK, http.MethodGet, "/rooms?status=OCCUPIED", nil, &occupied)
	require.Len(t, occupied, 1)
	assert.Equal(t, room.ID, occupied[0].ID)

	var tenants []apprental.TenantResponse
	client.Expect(http.StatusOK, http.MethodGet, fmt.Sprintf("/tenants?roomId=%s", room.ID), nil, &tenants)
	require.Len(t, tenants, 1)

	// Payments
	for _, p := range []map[string]any{
		{"tenantId": tenant.ID, "amount": 3500000, "dueDate": "2024-01-05T00:00:00Z", "date": "2024-01-04T00:00:00Z", "status": "PAID", "method": "cash"},
		{"tenantId": tenant.ID, "amount": 3500000, "dueDate": "2024-02-05T00:00:00Z", "date": "2024-02-06T00:00:00Z", "status": "PAID", "method": "bank transfer"},
		{"tenantId": tenant.ID, "amount": 3500000, "dueDate": "2024-03-05T00:00:00Z", "date": "2024-03-01T00:00:00Z"},
	} {
		client.Expect(http.StatusCreated, http.MethodPost, "/payments", p, nil)
	}

	client.Expect(http.StatusNotFound, http.MethodPost, "/payments", map[string]any{
		"tenantId": testutil.NewTestUUID("missing-tenant"),
		"amount":   10,
		"dueDate":  "2024-03-05T00:00:00Z",
	}, nil)

	var pending []apprental.PaymentResponse
	client.Expect(http.StatusOK, http.MethodGet, "/payments?status=PENDING", nil, &pending)
	require.Len(t, pending, 1)

	overdue := "OVERDUE"
	var updated apprental.PaymentResponse
	client.Expect(http.StatusOK, http.MethodPut, "/payments/"+pending[0].ID.String(),
		apprental.UpdatePaymentRequest{Status: &overdue}, &updated)
	assert.Equal(t, "OVERDUE", updated.Status)

	// Receipt
	var receipt apprental.ReceiptResponse
	client.Expect(http.StatusOK, http.MethodGet, "/rooms/"+room.ID.String()+"/receipt", nil, &receipt)
	require.NotNil(t, receipt.Tenant)
	assert.Equal(t, tenant.ID, receipt.Tenant.ID)
	require.Len(t, receipt.Payments, 3)
	assert.Equal(t, "2024-03-01", receipt.Payments[0].Date.Format("2006-01-02"))
	assert.True(t, receipt.Statistics.TotalPaid.Equal(decimal.NewFromInt(7000000)))
	assert.Equal(t, 0, receipt.Statistics.PendingCount)
	assert.Equal(t, 1, receipt.Statistics.OverdueCount)

	// Utility readings
	client.Expect(http.StatusCreated, http.MethodPost, "/utility-consumption", map[string]any{
		"roomId":         room.ID,
		"month":          1,
		"year":           2024,
		"electricNumber": 1520,
		"waterNumber":    88,
		"electricCost":   420000,
		"waterCost":      60000,
	}, nil)

	var previous apprental.PreviousReadingsResponse
	client.Expect(http.StatusOK, http.MethodGet,
		fmt.Sprintf("/utility-consumption/previous?roomId=%s&month=2&year=2024", room.ID), nil, &previous)
	assert.True(t, previous.Found)
	require.NotNil(t, previous.PreviousElectricNumber)
	assert.True(t, previous.PreviousElectricNumber.Equal(decimal.NewFromInt(1520)))

	var february apprental.UtilityConsumptionResponse
	client.Expect(http.StatusCreated, http.MethodPost, "/utility-consumption", map[string]any{
		"roomId":         room.ID,
		"month":          2,
		"year":           2024,
		"electricNumber": 1640,
		"waterNumber":    95,
	}, &february)
	require.NotNil(t, february.ElectricConsumption)
	assert.Equal(t, "120.00", *february.ElectricConsumption)
	require.NotNil(t, february.Room)
	assert.Equal(t, "Room 7A", february.Room.Name)

	env = client.Expect(http.StatusConflict, http.MethodPost, "/utility-consumption", map[string]any{
		"roomId":         room.ID,
		"month":          2,
		"year":           2024,
		"electricNumber": 1700,
		"waterNumber":    99,
	}, nil)
	assert.Equal(t, "CONFLICT", env.Code)
	assert.Equal(t, "A record for this room, month, and year already exists", env.Error)

	env = client.Expect(http.StatusBadRequest, http.MethodPost, "/utility-consumption", map[string]any{
		"roomId": room.ID,
		"month":  13,
	}, nil)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	var readings []apprental.UtilityConsumptionResponse
	client.Expect(http.StatusOK, http.MethodGet, "/utility-consumption?roomId="+room.ID.String(), nil, &readings)
	require.Len(t, readings, 2)
	assert.Equal(t, 2, readings[0].Month)

	// Tenant removal frees the room; room removal takes the readings with it
	client.Expect(http.StatusOK, http.MethodDelete, "/tenants/"+tenant.ID.String(), nil, nil)
	var freed apprental.RoomResponse
	client.Expect(http.StatusOK, http.MethodGet, "/rooms/"+room.ID.String(), nil, &freed)
	assert.Equal(t, "AVAILABLE", freed.Status)

	env = client.Expect(http.StatusOK, http.MethodDelete, "/rooms/"+room.ID.String(), nil, nil)
	assert.Contains(t, string(env.Data), "deleted successfully")
	client.Expect(http.StatusNotFound, http.MethodGet, "/rooms/"+room.ID.String(), nil, nil)
	assert.Zero(t, tdb.Count("utility_consumptions"))

	client.Expect(http.StatusBadRequest, http.MethodGet, "/rooms/not-a-uuid", nil, nil)
}
