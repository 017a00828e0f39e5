package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/callscribe-team/callscribe/internal/adapter/handler"
	"github.com/callscribe-team/callscribe/internal/adapter/repository"
	"github.com/callscribe-team/callscribe/internal/domain/repositories"
	"github.com/callscribe-team/callscribe/internal/infrastructure/cache"
	"github.com/callscribe-team/callscribe/internal/infrastructure/database"
	"github.com/callscribe-team/callscribe/internal/infrastructure/external/oauth"
	"github.com/callscribe-team/callscribe/internal/infrastructure/external/recall"
	"github.com/callscribe-team/callscribe/internal/infrastructure/external/sheets"
	"github.com/callscribe-team/callscribe/internal/infrastructure/storage"
	"github.com/callscribe-team/callscribe/internal/usecase/analysis"
	"github.com/callscribe-team/callscribe/internal/usecase/export"
	"github.com/callscribe-team/callscribe/internal/usecase/processing"
	pkgai "github.com/callscribe-team/callscribe/pkg/ai"
	"github.com/callscribe-team/callscribe/pkg/config"
	pkgvalidator "github.com/callscribe-team/callscribe/pkg/validator"
)

// @title           CallScribe API
// @version         1.0
// @description     Webhook-driven completion pipeline for provider-recorded meetings

// @host      api.callscribe.dev
// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	log.Println("🔧 Initializing dependencies...")

	// Database dial with startup retry; a deploy should survive the
	// database restarting a moment later than the app
	log.Println("📦 Connecting to database...")
	var db *gorm.DB
	dialDB := func() error {
		var dialErr error
		db, dialErr = database.NewPostgresDB(cfg)
		return dialErr
	}
	if err := backoff.Retry(dialDB, dialBackOff()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Applying sql-migrate migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	// Idempotency/lock store: Redis when configured, in-memory otherwise.
	// The in-memory store cannot coordinate across instances.
	var store repositories.ProcessStore
	if cfg.Redis.Host != "" {
		log.Println("📦 Connecting to Redis...")
		var redisClient *redis.Client
		dialRedis := func() error {
			var dialErr error
			redisClient, dialErr = cache.NewRedisClient(cfg)
			return dialErr
		}
		if err := backoff.Retry(dialRedis, dialBackOff()); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		store = cache.NewRedisProcessStore(redisClient)
	} else {
		log.Println("⚠️  REDIS_HOST not set, using in-memory process store (single instance only)")
		store = cache.NewMemoryProcessStore()
	}

	// Repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)

	// External clients
	log.Println("🤖 Initializing external clients...")
	providerClient := recall.NewClient(&cfg.Provider)
	sheetsClient := sheets.NewClient()
	googleProvider := oauth.NewGoogleProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURL,
	)
	groqClient := pkgai.NewGroqClient(&cfg.Groq)

	var transcriber processing.Transcriber
	if ft := pkgai.NewFallbackTranscriber(&cfg.Assembly); ft != nil {
		transcriber = ft
		log.Println("🎙️ AssemblyAI fallback transcription enabled")
	}

	var archive processing.Archive
	if cfg.Storage.Endpoint != "" {
		log.Println("🗄️  Connecting to object storage...")
		transcriptArchive, err := storage.NewTranscriptArchive(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize transcript archive: %v", err)
		}
		archive = transcriptArchive
	}

	// Services
	log.Println("✨ Initializing services...")
	analyzer := analysis.NewGroqAnalyzer(groqClient)
	analysisService := analysis.NewService(analyzer, cfg.Processing.AnalysisConcurrency, logger)
	exportService := export.NewService(sheetsClient, logger)

	pipeline := processing.NewPipeline(
		meetingRepo,
		balanceRepo,
		credentialRepo,
		store,
		providerClient,
		transcriber,
		archive,
		analysisService,
		exportService,
		googleProvider,
		&cfg.Processing,
		logger,
	)
	lifecycleService := processing.NewService(meetingRepo, pipeline, logger)

	// Handlers
	log.Println("🪝 Initializing handlers...")
	webhookHandler := handler.NewWebhook(cfg, lifecycleService, logger)
	meetingHandler := handler.NewMeeting(meetingRepo, pipeline, logger)

	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, webhookHandler, meetingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// dialBackOff bounds startup dial retries
func dialBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	return bo
}
