package availability

import (
	"context"
	"fmt"

	"bookingcal/models"
	"bookingcal/services/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AuditSink records override decisions that replaced or destroyed calendar state.
type AuditSink interface {
	Record(ctx context.Context, entry models.CalendarAudit) error
}

// TaskEnqueuer is the part of *asynq.Client the queue sink needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueAuditSink hands audit entries to the background worker.
type QueueAuditSink struct {
	Client TaskEnqueuer
}

func (q *QueueAuditSink) Record(ctx context.Context, entry models.CalendarAudit) error {
	task, opts, err := tasks.NewCalendarAuditTask(entry)
	if err != nil {
		return fmt.Errorf("failed to build audit task: %w", err)
	}
	if _, err := q.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue audit task: %w", err)
	}
	return nil
}

// LogAuditSink writes audit entries to the log only.
type LogAuditSink struct {
	Logger *zap.Logger
}

func (l *LogAuditSink) Record(_ context.Context, entry models.CalendarAudit) error {
	l.Logger.Info("Calendar audit",
		zap.String("auditId", entry.ID),
		zap.String("action", string(entry.Action)),
		zap.String("serviceId", entry.ServiceID),
		zap.String("date", entry.DateKey),
		zap.Int("discardedEvents", len(entry.DiscardedEvents)),
		zap.String("actor", entry.Actor),
	)
	return nil
}

// recordAudit runs after the mutation committed, so a sink failure is logged, not returned.
func (s *DefaultAvailabilityService) recordAudit(ctx context.Context, entry models.CalendarAudit) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	log := s.logger()
	log.Warn("Calendar override applied",
		zap.String("action", string(entry.Action)),
		zap.String("serviceId", entry.ServiceID),
		zap.String("date", entry.DateKey),
		zap.String("actor", entry.Actor))

	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, entry); err != nil {
		log.Error("Failed to record calendar audit", zap.String("auditId", entry.ID), zap.Error(err))
	}
}
