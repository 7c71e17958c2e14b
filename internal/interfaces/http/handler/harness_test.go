package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	rentalapp "github.com/rentdesk/backend/internal/application/rental"
	"github.com/rentdesk/backend/internal/infrastructure/persistence"
	"github.com/rentdesk/backend/internal/infrastructure/persistence/models"
	"github.com/rentdesk/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// envelope mirrors dto.Response with the payload left undecoded
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// decodeData unmarshals the data field of a success envelope into T
func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type memoryImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryImageStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryImageStore) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryImageStore) PublicURL(key string) string {
	return "https://images.example.com/" + key
}

// rentalAPI wires the rental handlers to real services backed by in-memory SQLite
type rentalAPI struct {
	router *gin.Engine
	images *memoryImageStore
}

type apiOption func(*apiOptions)

type apiOptions struct {
	withoutStorage bool
	maxImageSize   int64
}

func withoutStorage() apiOption {
	return func(o *apiOptions) { o.withoutStorage = true }
}

func withMaxImageSize(n int64) apiOption {
	return func(o *apiOptions) { o.maxImageSize = n }
}

func newTestDB(t *testing.T) *gorm.DB {
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

func newRentalAPI(t *testing.T, opts ...apiOption) *rentalAPI {
	t.Helper()
	o := apiOptions{maxImageSize: 1 << 20}
	for _, opt := range opts {
		opt(&o)
	}

	db := newTestDB(t)
	log := zap.NewNop()
	roomRepo := persistence.NewGormRoomRepository(db)
	tenantRepo := persistence.NewGormTenantRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	utilityRepo := persistence.NewGormUtilityConsumptionRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	images := &memoryImageStore{objects: map[string][]byte{}}
	var imageService *rentalapp.RoomImageService
	if !o.withoutStorage {
		imageService = rentalapp.NewRoomImageService(roomRepo, images, log)
	}

	rooms := NewRoomHandler(
		rentalapp.NewRoomService(roomRepo),
		rentalapp.NewReceiptService(roomRepo, paymentRepo),
		imageService,
		o.maxImageSize,
	)
	tenants := NewTenantHandler(rentalapp.NewTenantService(tenantRepo, txScope, log))
	payments := NewPaymentHandler(rentalapp.NewPaymentService(paymentRepo, tenantRepo))
	utilities := NewUtilityConsumptionHandler(rentalapp.NewUtilityConsumptionService(utilityRepo, txScope, log))

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/rooms", rooms.List)
	api.POST("/rooms", rooms.Create)
	api.GET("/rooms/:id", rooms.GetByID)
	api.PUT("/rooms/:id", rooms.Update)
	api.DELETE("/rooms/:id", rooms.Delete)
	api.GET("/rooms/:id/receipt", rooms.Receipt)
	api.POST("/rooms/:id/images", rooms.UploadImage)

	api.GET("/tenants", tenants.List)
	api.POST("/tenants", tenants.Create)
	api.GET("/tenants/:id", tenants.GetByID)
	api.PUT("/tenants/:id", tenants.Update)
	api.DELETE("/tenants/:id", tenants.Delete)

	api.GET("/payments", payments.List)
	api.POST("/payments", payments.Create)
	api.GET("/payments/:id", payments.GetByID)
	api.PUT("/payments/:id", payments.Update)
	api.DELETE("/payments/:id", payments.Delete)

	api.GET("/utility-consumption", utilities.List)
	api.GET("/utility-consumption/previous", utilities.Previous)
	api.POST("/utility-consumption", utilities.Create)
	api.GET("/utility-consumption/:id", utilities.GetByID)
	api.PUT("/utility-consumption/:id", utilities.Update)
	api.DELETE("/utility-consumption/:id", utilities.Delete)

	return &rentalAPI{router: r, images: images}
}

func (a *rentalAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *rentalAPI) createRoom(t *testing.T, name string) rentalapp.RoomResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/rooms",
		`{"name":"`+name+`","address":"12 Harbour Street","rent":"800.00","bedrooms":1,"bathrooms":1,"amenities":["wifi"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[rentalapp.RoomResponse](t, w)
}

func (a *rentalAPI) createTenant(t *testing.T, roomID string) rentalapp.TenantResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/tenants",
		`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","roomId":"`+roomID+
			`","moveInDate":"2025-01-01T00:00:00Z","rent":"800","deposit":"1600"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[rentalapp.TenantResponse](t, w)
}
