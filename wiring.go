package main

import (
	"context"
	"errors"

	"bookingcal/config"
	"bookingcal/cron"
	"bookingcal/database"
	availabilityRepo "bookingcal/database/repository/availability"
	auditRepo "bookingcal/database/repository/audit"
	"bookingcal/services/availability"
	"bookingcal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/juju/clock"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

type storeWiring struct {
	repo availabilityRepo.AvailabilityRepository
	ping utils.StorePing
}

// initStore opens the calendar store selected by STORE_DRIVER.
func initStore(logger *zap.Logger) storeWiring {
	switch config.AppConfig.StoreDriver {
	case "firestore":
		database.InitFirestore()
		return storeWiring{
			repo: availabilityRepo.NewFirestoreAvailabilityRepo(),
			ping: func(ctx context.Context) error {
				_, err := database.FirestoreClient.Collection(config.FirestoreCollection).Limit(1).Documents(ctx).Next()
				if errors.Is(err, iterator.Done) {
					return nil
				}
				return err
			},
		}
	case "memory":
		logger.Warn("Using in-memory calendar store; data is lost on restart")
		return storeWiring{repo: availabilityRepo.NewMemoryAvailabilityRepo()}
	case "mongo", "":
		ensureMongo()
		if err := availabilityRepo.EnsureAvailabilityIndexes(database.Database().Collection(availabilityRepo.CollectionName)); err != nil {
			logger.Fatal("Failed to create availability indexes", zap.Error(err))
		}
		return storeWiring{
			repo: availabilityRepo.NewMongoAvailabilityRepo(),
			ping: func(ctx context.Context) error { return database.MongoClient.Ping(ctx, nil) },
		}
	default:
		logger.Fatal("Unknown STORE_DRIVER", zap.String("driver", config.AppConfig.StoreDriver))
		return storeWiring{}
	}
}

// initLocker builds the per-date lease selected by LOCK_DRIVER.
func initLocker(logger *zap.Logger) (availability.Locker, *redis.Client) {
	switch config.AppConfig.LockDriver {
	case "redis", "":
		client := utils.GetLockClient()
		return &availability.RedisLocker{
			Client: client,
			TTL:    config.LockTTL(),
			Clock:  clock.WallClock,
			Logger: logger.Named("lease"),
		}, client
	case "local":
		return availability.NewLocalLocker(), nil
	case "none":
		return nil, nil
	default:
		logger.Fatal("Unknown LOCK_DRIVER", zap.String("driver", config.AppConfig.LockDriver))
		return nil, nil
	}
}

type auditWiring struct {
	sink        availability.AuditSink
	repo        auditRepo.CalendarAuditRepository
	queue       *asynq.Client
	queueClient *redis.Client
	worker      *cron.AuditWorker
}

func (a auditWiring) close() {
	if a.worker != nil {
		a.worker.Shutdown()
	}
	if a.queue != nil {
		a.queue.Close()
	}
}

// initAudit builds the audit sink selected by AUDIT_DRIVER. The queue driver also runs
// the worker that persists entries to MongoDB.
func initAudit(logger *zap.Logger) auditWiring {
	switch config.AppConfig.AuditDriver {
	case "log":
		return auditWiring{sink: &availability.LogAuditSink{Logger: logger.Named("audit")}}
	case "queue", "":
		ensureMongo()
		coll := database.Database().Collection(auditRepo.CollectionName)
		if err := auditRepo.EnsureAuditIndexes(coll); err != nil {
			logger.Fatal("Failed to create audit indexes", zap.Error(err))
		}
		repo := auditRepo.NewMongoAuditRepo()
		client := asynq.NewClient(utils.QueueRedisOpt())
		return auditWiring{
			sink:        &availability.QueueAuditSink{Client: client},
			repo:        repo,
			queue:       client,
			queueClient: utils.GetQueueClient(),
			worker:      cron.NewAuditWorker(utils.QueueRedisOpt(), repo),
		}
	default:
		logger.Fatal("Unknown AUDIT_DRIVER", zap.String("driver", config.AppConfig.AuditDriver))
		return auditWiring{}
	}
}

func ensureMongo() {
	if database.MongoClient == nil {
		database.InitDB()
	}
}
