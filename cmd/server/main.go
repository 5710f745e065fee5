// Package main runs the HR vacation backend HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dragon-learning/hr-backend/config"
	"github.com/dragon-learning/hr-backend/internal/agent"
	"github.com/dragon-learning/hr-backend/internal/auth"
	"github.com/dragon-learning/hr-backend/internal/busdays"
	"github.com/dragon-learning/hr-backend/internal/directory"
	"github.com/dragon-learning/hr-backend/internal/exports"
	"github.com/dragon-learning/hr-backend/internal/middleware"
	"github.com/dragon-learning/hr-backend/internal/models"
	"github.com/dragon-learning/hr-backend/internal/notify"
	"github.com/dragon-learning/hr-backend/internal/vacations"
	"github.com/dragon-learning/hr-backend/pkg/database"
	"github.com/dragon-learning/hr-backend/pkg/queue"
	"github.com/dragon-learning/hr-backend/pkg/redis"
	"github.com/dragon-learning/hr-backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	calendar := busdays.NewBrazil()

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Directory
	dirRepo := directory.NewRepository(pool)
	dirHandler := directory.NewHandler(dirRepo, logger)

	// Notification delivery
	notifyClient := notify.NewClient(cfg.Notify.EndpointURL, time.Duration(cfg.Notify.TimeoutSec)*time.Second, logger)
	notifyRepo := notify.NewRepository(pool)
	notifyHandler := notify.NewHandler(notifyRepo, jobQueue, logger)
	var notifier vacations.Notifier
	if cfg.Notify.Async {
		notifier = notify.NewAsyncDeliverer(notifyRepo, jobQueue, logger)
	} else {
		notifier = notify.NewSyncDeliverer(notifyClient, notifyRepo, logger)
	}

	// Vacations
	eventRepo := vacations.NewRepository(pool)
	locker := vacations.NewRedisLocker(rdb.Client, time.Duration(cfg.Vacation.LockTTLSec)*time.Second, logger)
	vacationSvc := vacations.NewService(dirRepo, eventRepo, notifier, locker, calendar, cfg.Vacation.ContractType, logger)
	vacationHandler := vacations.NewHandler(vacationSvc, eventRepo, logger)

	// Agent tool surface
	dispatcher := agent.NewDispatcher(vacationSvc)
	agentHandler := agent.NewHandler(dispatcher, logger)

	// Exports (run on the worker)
	exportHandler := exports.NewHandler(jobQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public: vacation workflow and the agent tool surface
	router.POST("/vacations/requests", vacationHandler.SubmitRequest)
	router.POST("/vacations/cancellations", vacationHandler.CancelRequest)
	router.GET("/vacations/business-days", vacationHandler.BusinessDays)
	router.GET("/vacations/current-year", vacationHandler.CurrentYear)
	router.POST("/agent/tools", agentHandler.Invoke)

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
	}

	// Admin API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.POST("/auth/register", middleware.RequireRole(string(models.RoleAdmin)), authHandler.Register)

		api.GET("/employees", dirHandler.List)
		api.GET("/employees/:email", dirHandler.Get)
		api.PUT("/employees", middleware.RequireRole(string(models.RoleAdmin)), dirHandler.Upsert)

		api.GET("/vacations/events", vacationHandler.ListEvents)

		api.GET("/notifications", notifyHandler.List)
		api.POST("/notifications/:id/resend", notifyHandler.Resend)

		api.POST("/exports/events", exportHandler.Request)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
