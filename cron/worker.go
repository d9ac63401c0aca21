package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	auditRepo "bookingcal/database/repository/audit"
	"bookingcal/services/tasks"
	"bookingcal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AuditWorker consumes calendar audit tasks and persists them.
type AuditWorker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewAuditWorker builds the asynq server for the audit queue.
func NewAuditWorker(redisOpts asynq.RedisClientOpt, repo auditRepo.CalendarAuditRepository) *AuditWorker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: utils.GetLogger().Sugar().Named("asynq"),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCalendarAudit, handleAuditTask(repo))

	return &AuditWorker{srv: srv, mux: mux}
}

// Start runs the worker in the background, retrying startup with backoff.
func (w *AuditWorker) Start(healthClient *redis.Client) {
	logger := utils.GetLogger()

	if healthClient != nil {
		go monitorRedisConnection(healthClient)
	}

	go func() {
		logger.Info("[AuditWorker] Starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			logger.Error("[AuditWorker] Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("[AuditWorker] Max retry attempts reached; audit tasks stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown stops fetching tasks and waits for in-flight ones.
func (w *AuditWorker) Shutdown() {
	w.srv.Shutdown()
}

func handleAuditTask(repo auditRepo.CalendarAuditRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		entry, err := tasks.ParseCalendarAuditTask(task)
		if err != nil {
			logger.Error("[AuditHandler] Invalid payload", zap.Error(err))
			return fmt.Errorf("invalid audit payload: %v: %w", err, asynq.SkipRetry)
		}

		id, err := repo.Create(ctx, entry)
		if isAlreadyStored(err) {
			logger.Info("[AuditHandler] Audit entry already stored; skipping redelivery",
				zap.String("auditId", entry.ID))
			return nil
		}
		if err != nil {
			logger.Error("[AuditHandler] Failed to persist audit entry",
				zap.String("auditId", entry.ID), zap.Error(err))
			return err
		}

		logger.Info("[AuditHandler] Audit entry stored",
			zap.String("auditId", id),
			zap.String("action", string(entry.Action)),
			zap.String("serviceId", entry.ServiceID),
			zap.String("date", entry.DateKey))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(client *redis.Client) {
	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("[AuditWorker] Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}

// isAlreadyStored reports whether a Create failure means the entry was persisted by an earlier delivery.
func isAlreadyStored(err error) bool {
	return err != nil && (errors.Is(err, auditRepo.ErrAuditExists) || mongo.IsDuplicateKeyError(err))
}
