package availability

import (
	"context"
	"errors"
	"testing"

	"bookingcal/models"
	"bookingcal/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func TestQueueAuditSink_EnqueuesTask(t *testing.T) {
	enq := &fakeEnqueuer{}
	sink := &QueueAuditSink{Client: enq}

	entry := models.CalendarAudit{ID: "a-1", Action: models.AuditBlockDiscardedEvents, ServiceID: "svc-1", DateKey: "2024-03-15"}
	require.NoError(t, sink.Record(context.Background(), entry))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, tasks.TypeCalendarAudit, enq.tasks[0].Type())

	decoded, err := tasks.ParseCalendarAuditTask(enq.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, entry.ID, decoded.ID)
	assert.Equal(t, entry.Action, decoded.Action)
}

func TestSinkFailureDoesNotFailMutation(t *testing.T) {
	svc, _, _ := newTestService(t)
	core, logs := observer.New(zapcore.DebugLevel)
	svc.Logger = zap.New(core)
	svc.Audit = &QueueAuditSink{Client: &fakeEnqueuer{err: errors.New("redis down")}}
	ctx := context.Background()

	_, err := svc.AddEvent(ctx, testRef, march15, testEvent("e1"), AddEventOptions{})
	require.NoError(t, err)
	require.NoError(t, svc.BlockDate(ctx, testRef, march15, BlockOptions{DiscardEvents: true}))

	assert.Equal(t, 1, logs.FilterMessage("Failed to record calendar audit").Len())
	assert.Equal(t, 1, logs.FilterMessage("Calendar override applied").Len())
}

func TestLogAuditSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := &LogAuditSink{Logger: zap.New(core)}

	require.NoError(t, sink.Record(context.Background(), models.CalendarAudit{Action: models.AuditEventOverrodeBlock, ServiceID: "svc-1"}))
	entries := logs.FilterMessage("Calendar audit").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "event_overrode_block", entries[0].ContextMap()["action"])
}
