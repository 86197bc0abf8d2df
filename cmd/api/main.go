package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/lendtrack/lendtrack-api/internal/cache"
	"github.com/lendtrack/lendtrack-api/internal/config"
	"github.com/lendtrack/lendtrack-api/internal/database"
	"github.com/lendtrack/lendtrack-api/internal/handlers"
	"github.com/lendtrack/lendtrack-api/internal/jobs"
	"github.com/lendtrack/lendtrack-api/internal/middleware"
	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/internal/services"
	"github.com/lendtrack/lendtrack-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment, cfg.LogLevel)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Redis is optional. Without it the analytics cache and idempotency
	// replay are simply disabled.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without cache", "error", err)
			rdb = nil
		} else {
			logger.Info("Connected to redis")
		}
	}

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, rdb, cfg, db)

	scheduleJobs(worker, svcs, cfg)

	h := handlers.NewHandlers(svcs, worker)

	router := setupRouter(h, cfg, rdb)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

// scheduleJobs registers the recurring background work. The reconciliation
// pass runs once at startup and then on its configured interval so derived
// loan state tracks the calendar even without traffic.
func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	interval := time.Duration(cfg.ReconcileInterval) * time.Hour
	worker.ScheduleEveryImmediate(interval, func(ctx context.Context) error {
		changed, err := svcs.Reconciliation.Run(ctx)
		if err != nil {
			return err
		}
		if len(changed) > 0 {
			svcs.Analytics.InvalidateCache(ctx)
		}
		return nil
	})
}

func setupRouter(h *handlers.Handlers, cfg *config.Config, rdb *redis.Client) *gin.Engine {
	router := gin.New()

	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.PATCH("/auth/change_password", h.Auth.ChangePassword)

			// Borrowers
			protected.GET("/borrowers", h.Borrower.Index)
			protected.POST("/borrowers", h.Borrower.Create)
			protected.GET("/borrowers/:borrower_id", h.Borrower.Show)
			protected.PUT("/borrowers/:borrower_id", h.Borrower.Update)
			protected.DELETE("/borrowers/:borrower_id", h.Borrower.Delete)

			// Loans
			protected.GET("/loans", h.Loan.Index)
			protected.POST("/loans", h.Loan.Create)
			protected.GET("/loans/:loan_id", h.Loan.Show)
			protected.PUT("/loans/:loan_id", h.Loan.Update)
			protected.DELETE("/loans/:loan_id", h.Loan.Delete)
			protected.POST("/loans/:loan_id/archive", h.Loan.Archive)
			protected.GET("/loans/:loan_id/projection", h.Loan.Projection)
			protected.GET("/loans/:loan_id/payments", h.Payment.IndexByLoan)

			// Payments. Retried submissions replay through the
			// idempotency layer instead of double-recording.
			protected.GET("/payments", h.Payment.Index)
			protected.POST("/payments", middleware.Idempotency(rdb, 24*time.Hour), h.Payment.Create)
			protected.GET("/payments/:payment_id", h.Payment.Show)
			protected.DELETE("/payments/:payment_id", h.Payment.Delete)

			// Advances
			protected.GET("/advances", h.Advance.Index)
			protected.POST("/advances", h.Advance.Create)
			protected.GET("/advances/:advance_id", h.Advance.Show)
			protected.POST("/advances/:advance_id/settle", h.Advance.Settle)

			// Analytics
			protected.GET("/analytics/overview", h.Analytics.Overview)
			protected.GET("/analytics/overdue", h.Analytics.Overdue)
			protected.GET("/analytics/upcoming", h.Analytics.Upcoming)

			// Reconciliation
			protected.POST("/reconcile", h.Loan.Reconcile)

			// Exports and import
			protected.GET("/exports/loans_csv", h.Export.LoansCSV)
			protected.GET("/exports/loans_xlsx", h.Export.LoansXLSX)
			protected.GET("/exports/payments_csv", h.Export.PaymentsCSV)
			protected.POST("/imports/loans_csv", h.Export.ImportLoans)

			// Sync
			protected.POST("/sync", h.Sync.Apply)

			// Notifications
			protected.GET("/notifications", h.Notification.Index)
			protected.POST("/notifications/:notification_id/read", h.Notification.MarkAsRead)
			protected.POST("/notifications/read_all", h.Notification.MarkAllAsRead)

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/audits", h.Audit.Index)
				admin.GET("/backups/export", h.Backup.Export)
				admin.POST("/backups/restore", h.Backup.Restore)
			}
		}
	}

	return router
}
