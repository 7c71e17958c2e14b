package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	identityapp "github.com/rentdesk/backend/internal/application/identity"
	rentalapp "github.com/rentdesk/backend/internal/application/rental"
	identitydomain "github.com/rentdesk/backend/internal/domain/identity"
	"github.com/rentdesk/backend/internal/infrastructure/auth"
	"github.com/rentdesk/backend/internal/infrastructure/config"
	"github.com/rentdesk/backend/internal/infrastructure/logger"
	"github.com/rentdesk/backend/internal/infrastructure/persistence"
	"github.com/rentdesk/backend/internal/infrastructure/storage"
	"github.com/rentdesk/backend/internal/infrastructure/telemetry"
	"github.com/rentdesk/backend/internal/interfaces/http/handler"
	"github.com/rentdesk/backend/internal/interfaces/http/middleware"
	"github.com/rentdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			RentDesk Backend API
//	@version		1.0
//	@description	Rental property management API: rooms, tenants, payments and utility readings.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}"

func main() {
	// A missing .env is fine; the environment may already be populated
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry comes up before the final logger so zap can be bridged into OTLP logs
	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	providers, err := telemetry.Setup(rootCtx, telemetry.ConfigFrom(cfg.Telemetry, version), bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log, err := logger.New(logCfg, providers.Logs.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Warn("Failed to stop profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		providers.Tracer.EnableSpanProfiles()
	}

	log.Info("Starting RentDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database with zap-backed gorm logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	var dbMeter = providers.Meter.Meter("rentdesk.db")
	if !providers.Meter.IsEnabled() {
		dbMeter = nil
	}
	dbMetrics, err := telemetry.InstrumentGorm(db.DB, telemetry.DBConfig{
		Tracing:               cfg.Database.TraceEnabled && providers.Tracer.IsEnabled(),
		DBName:                cfg.Database.DBName,
		IncludeQueryVariables: !cfg.App.IsProduction(),
		SlowQueryThreshold:    cfg.Database.SlowThreshold,
	}, dbMeter, log)
	if err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}

	// Session revocation store: redis when configured, process memory otherwise
	var sessions auth.SessionStore
	var redisStore *auth.RedisSessionStore
	if cfg.Redis.Enabled {
		redisStore, err = auth.NewRedisSessionStore(rootCtx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
		sessions = redisStore
		log.Info("Redis session store connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		sessions = auth.NewInMemorySessionStore()
		log.Warn("Redis disabled, logged-out sessions are tracked in memory only")
	}

	// Object storage for room images
	var objectStore *storage.S3ObjectStorage
	if cfg.Storage.Enabled {
		objectStore, err = storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := objectStore.EnsureBucket(rootCtx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.Error(err), zap.String("bucket", cfg.Storage.Bucket))
		}
	} else {
		log.Warn("Object storage disabled, room image upload is unavailable")
	}

	// Operator credential
	operator, err := newOperator(cfg)
	if err != nil {
		log.Fatal("Invalid admin credential", zap.Error(err))
	}

	// Repositories
	roomRepo := persistence.NewGormRoomRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	utilityRepo := persistence.NewGormUtilityConsumptionRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	roomService := rentalapp.NewRoomService(roomRepo)
	tenantService := rentalapp.NewTenantService(tenantRepo, txScope, log)
	paymentService := rentalapp.NewPaymentService(paymentRepo, tenantRepo)
	utilityService := rentalapp.NewUtilityConsumptionService(utilityRepo, txScope, log)
	receiptService := rentalapp.NewReceiptService(roomRepo, paymentRepo)
	var imageService *rentalapp.RoomImageService
	if objectStore != nil {
		imageService = rentalapp.NewRoomImageService(roomRepo, objectStore, log)
	}

	tokenService := auth.NewSessionTokenService(cfg.JWT)
	authService := identityapp.NewAuthService(operator, tokenService, sessions, log)

	// Business metrics
	var rentalMetrics *telemetry.RentalMetrics
	if providers.Meter.IsEnabled() {
		rentalMetrics, err = telemetry.NewRentalMetrics(telemetry.RentalMetricsConfig{
			Meter:             providers.Meter.Meter("rentdesk.rental"),
			Logger:            log,
			OccupancyProvider: telemetry.NewGormOccupancyMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize rental metrics", zap.Error(err))
		}
		roomService.SetBusinessMetrics(rentalMetrics)
		tenantService.SetBusinessMetrics(rentalMetrics)
		paymentService.SetBusinessMetrics(rentalMetrics)
		utilityService.SetBusinessMetrics(rentalMetrics)
		rentalMetrics.StartPeriodicCollection(rootCtx, cfg.Telemetry.MetricsInterval)
		defer rentalMetrics.Stop()
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	roomHandler := handler.NewRoomHandler(roomService, receiptService, imageService, cfg.Storage.MaxUploadSize)
	tenantHandler := handler.NewTenantHandler(tenantService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	utilityHandler := handler.NewUtilityConsumptionHandler(utilityService)

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	systemHandler.AddChecker("database", db)
	if redisStore != nil {
		systemHandler.AddChecker("redis", redisStore)
	}
	if objectStore != nil {
		systemHandler.AddChecker("storage", objectStore)
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - Start the server span before the request logger reads it
	// 4. Profiling - Label profile samples with the route
	// 5. Logger - Log requests
	// 6. Metrics - Request count, latency and sizes
	// 7. Security - Add security headers
	// 8. CORS - Handle cross-origin requests
	// 9. BodyLimit - Limit request body size
	// 10. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.Tracer.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:   profiler.IsEnabled(),
		SkipPaths: []string{"/health", "/health/ready"},
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: providers.Meter,
		Enabled:       providers.Meter.IsEnabled(),
	}))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Body size limit; image uploads carry their own limit
	bodyLimit := cfg.HTTP.MaxBodySize
	if cfg.Storage.MaxUploadSize > bodyLimit {
		bodyLimit = cfg.Storage.MaxUploadSize
	}
	engine.Use(middleware.BodyLimit(bodyLimit))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.HTTP.WriteTimeout > 0 {
		engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))
	}

	// Probes (outside API versioning and authentication)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/health/ready", systemHandler.Ready)

	// Versioned API; every route except login requires a session
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(
			middleware.SessionWithConfig(middleware.SessionConfig{
				Authenticator: authService,
				SkipPaths:     []string{"/api/v1" + router.LoginPath},
			}),
			middleware.TracingAttributeInjector(),
		),
	)

	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateRequests, cfg.HTTP.LoginRateWindow)
	for _, group := range router.RentalGroups(router.RentalHandlers{
		Auth:            authHandler,
		Rooms:           roomHandler,
		Tenants:         tenantHandler,
		Payments:        paymentHandler,
		Utilities:       utilityHandler,
		LoginMiddleware: []gin.HandlerFunc{middleware.AuthRateLimit(loginLimiter)},
	}) {
		r.Register(group)
	}
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopRoot()

	if err := dbMetrics.Stop(); err != nil {
		log.Warn("Failed to stop database metrics", zap.Error(err))
	}
	if err := providers.Shutdown(ctx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newOperator builds the single operator account. A bcrypt hash is required in production;
// elsewhere a plaintext password is hashed at startup.
func newOperator(cfg *config.Config) (*identitydomain.Operator, error) {
	if cfg.Admin.PasswordHash != "" {
		return identitydomain.NewOperator(cfg.Admin.Username, cfg.Admin.PasswordHash)
	}
	if cfg.App.IsProduction() {
		return nil, errors.New("admin password hash is required in production")
	}
	return identitydomain.NewOperatorWithPassword(cfg.Admin.Username, cfg.Admin.Password)
}
