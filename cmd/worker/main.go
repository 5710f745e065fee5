// Package main runs the background job worker (form notification delivery, event-log exports).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dragon-learning/hr-backend/config"
	"github.com/dragon-learning/hr-backend/internal/directory"
	"github.com/dragon-learning/hr-backend/internal/exports"
	"github.com/dragon-learning/hr-backend/internal/notify"
	"github.com/dragon-learning/hr-backend/internal/vacations"
	"github.com/dragon-learning/hr-backend/internal/worker"
	"github.com/dragon-learning/hr-backend/pkg/database"
	"github.com/dragon-learning/hr-backend/pkg/queue"
	"github.com/dragon-learning/hr-backend/pkg/redis"
	"github.com/dragon-learning/hr-backend/pkg/storage"
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

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	notifyRepo := notify.NewRepository(pool)
	eventRepo := vacations.NewRepository(pool)
	dirRepo := directory.NewRepository(pool)
	notifyClient := notify.NewClient(cfg.Notify.EndpointURL, time.Duration(cfg.Notify.TimeoutSec)*time.Second, logger)

	var exporter *exports.Exporter
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			ExportsBucket:   cfg.AWS.ExportsBucket,
		}
		s3Client, err := storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Fatal("s3", zap.Error(err))
		}
		exporter = exports.NewExporter(eventRepo, s3Client, logger)
	} else {
		logger.Warn("exports disabled (AWS_REGION not set)")
	}

	jobQueue := queue.NewQueue(rdb.Client, logger)
	processor := worker.NewProcessor(notifyRepo, eventRepo, dirRepo, notifyClient, exporter, jobQueue, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
