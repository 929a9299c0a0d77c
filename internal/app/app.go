package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"flightline/internal/config"
	"flightline/internal/db"
	httpserver "flightline/internal/http"
	"flightline/internal/http/handlers"
	"flightline/internal/http/middleware"
	"flightline/internal/observability/metrics"
	redisstore "flightline/internal/redis"
	"flightline/internal/repository"
	"flightline/internal/service"
)

// App wires the flightline dependency graph.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := redisstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	metrics.Init()

	aircraftRepo := repository.NewAircraftRepository(sqlDB)
	instructorRepo := repository.NewInstructorRepository(sqlDB)
	equipmentRepo := repository.NewEquipmentRepository(sqlDB)
	bookingRepo := repository.NewBookingRepository(sqlDB)
	rateRepo := repository.NewChargeRateRepository(sqlDB)
	settingsRepo := repository.NewSettingsRepository(sqlDB)
	flightTypeRepo := repository.NewFlightTypeRepository(sqlDB)
	invoiceRepo := repository.NewInvoiceRepository(sqlDB)

	draftStore := redisstore.NewDraftStore(redisClient, cfg.DraftTTL())

	loc := cfg.Location()
	availability := service.NewAvailabilityService(bookingRepo, instructorRepo, loc)
	bookingService := service.NewBookingService(bookingRepo, availability, loc, logger)
	checkinService := service.NewCheckInService(
		bookingRepo,
		rateRepo,
		settingsRepo,
		invoiceRepo,
		draftStore,
		cfg.School.DefaultTaxRate,
		logger,
	)

	routes := httpserver.RouterDeps{
		CatalogHandlers: handlers.NewCatalogHandlers(aircraftRepo, instructorRepo, equipmentRepo, rateRepo, flightTypeRepo, logger),
		BookingHandlers: handlers.NewBookingHandlers(bookingService, availability, logger),
		CheckInHandlers: handlers.NewCheckInHandlers(checkinService, logger),
		InvoiceHandlers: handlers.NewInvoiceHandlers(invoiceRepo, logger),
		ExportHandlers:  handlers.NewExportHandlers(bookingRepo, instructorRepo, logger),
		HealthHandler:   handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes, middleware.AuthMiddleware(cfg.Auth.JWTSecret))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
