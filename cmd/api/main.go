// @title Pulse Survey API
// @version 1.0
// @description Multi-section impact survey with persisted drafts, validation and spreadsheet submission.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pulse-survey/internal/adapter"
	"pulse-survey/internal/adapter/sheets"
	"pulse-survey/internal/cache"
	"pulse-survey/internal/config"
	"pulse-survey/internal/database"
	"pulse-survey/internal/domain"
	"pulse-survey/internal/handler"
	"pulse-survey/internal/logger"
	"pulse-survey/internal/middleware"
	"pulse-survey/internal/repository"
	"pulse-survey/internal/service"
	"pulse-survey/internal/survey"

	_ "pulse-survey/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

// newAnswerStore connects to Redis, or falls back to process memory when
// Redis is not configured or unreachable.
func newAnswerStore(cfg config.RedisConfig, appLogger *zap.Logger) domain.Cache {
	if cfg.Address == "" {
		appLogger.Warn("Redis address not set, answers are kept in memory only")
		return adapter.NewMemoryStore()
	}
	client, err := cache.NewRedisClient(cfg)
	if err != nil {
		appLogger.Warn("Failed to connect to Redis, answers are kept in memory only", zap.Error(err))
		return adapter.NewMemoryStore()
	}
	appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Address))
	return adapter.NewRedisStore(client)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	schema, err := survey.LoadSchema(cfg.Survey.SchemaPath)
	if err != nil {
		appLogger.Fatal("Failed to load survey schema", zap.String("path", cfg.Survey.SchemaPath), zap.Error(err))
	}
	appLogger.Info("Survey schema loaded", zap.String("title", schema.Title), zap.Int("questions", len(schema.Questions())))

	location, err := cfg.Sheets.Location()
	if err != nil {
		appLogger.Fatal("Invalid sheets time zone", zap.String("timezone", cfg.Sheets.TimeZone), zap.Error(err))
	}

	transport, err := sheets.NewTransport(cfg.Sheets.URL, cfg.Sheets.Timeout)
	if err != nil {
		appLogger.Fatal("Failed to create sheets transport", zap.Error(err))
	}

	storage := service.NewSafeStorage(newAnswerStore(cfg.Redis, appLogger), cfg.Storage.TTL, cfg.Storage.OpTimeout)
	persister := service.NewPersister(storage, cfg.Storage.QueueSize)

	var archive domain.SubmissionArchive
	if cfg.Archive.Enabled {
		db, err := database.NewSQLXOracleDB(cfg.GetDSN())
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		archive = repository.NewSQLXSubmissionRepository(db)
		appLogger.Info("Submission ledger enabled")
	}

	surveyService := service.NewSurveyService(service.SurveyOptions{
		Schema:     schema,
		Storage:    storage,
		Persister:  persister,
		Transport:  transport,
		Archive:    archive,
		StorageKey: cfg.Storage.Key,
		Location:   location,
		SessionTTL: cfg.Storage.TTL,
	})
	dashboardService := service.NewDashboardService(archive)

	surveyHandler := handler.NewSurveyHandler(surveyService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	healthHandler := handler.NewHealthHandler(storage)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app.Group("/api"), surveyHandler, dashboardHandler, healthHandler)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	// Pending answer snapshots are written before exit.
	persister.Close()
	appLogger.Info("Server exited gracefully")
}
