package cron

import (
	"context"
	"errors"
	"fmt"
	"testing"

	auditRepo "bookingcal/database/repository/audit"
	"bookingcal/models"
	"bookingcal/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeAuditRepo struct {
	created []models.CalendarAudit
	err     error
}

func (f *fakeAuditRepo) Create(_ context.Context, entry models.CalendarAudit) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, entry)
	return entry.ID, nil
}

func (f *fakeAuditRepo) ListByService(context.Context, string, int64) ([]models.CalendarAudit, error) {
	return f.created, nil
}

func TestHandleAuditTask_Persists(t *testing.T) {
	repo := &fakeAuditRepo{}
	task, _, err := tasks.NewCalendarAuditTask(models.CalendarAudit{
		ID:        "a-1",
		Action:    models.AuditBlockDiscardedEvents,
		ServiceID: "svc-1",
		DateKey:   "2024-03-15",
		DiscardedEvents: []models.CalendarEvent{
			{ID: "e1", Title: "Wedding"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, handleAuditTask(repo)(context.Background(), task))
	require.Len(t, repo.created, 1)
	assert.Equal(t, "a-1", repo.created[0].ID)
	assert.Equal(t, "Wedding", repo.created[0].DiscardedEvents[0].Title)
}

func TestHandleAuditTask_BadPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(tasks.TypeCalendarAudit, []byte("{not json"))
	err := handleAuditTask(&fakeAuditRepo{})(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleAuditTask_StoreFailureRetries(t *testing.T) {
	repo := &fakeAuditRepo{err: errors.New("mongo down")}
	task, _, err := tasks.NewCalendarAuditTask(models.CalendarAudit{ID: "a-2"})
	require.NoError(t, err)

	err = handleAuditTask(repo)(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleAuditTask_RedeliveryIsDone(t *testing.T) {
	task, _, err := tasks.NewCalendarAuditTask(models.CalendarAudit{ID: "a-3", ServiceID: "svc-1"})
	require.NoError(t, err)

	duplicate := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error collection: calendar_audit"}},
	}
	for name, storeErr := range map[string]error{
		"sentinel":      fmt.Errorf("audit a-3: %w", auditRepo.ErrAuditExists),
		"duplicate key": fmt.Errorf("failed to insert calendar audit: %w", duplicate),
	} {
		t.Run(name, func(t *testing.T) {
			repo := &fakeAuditRepo{err: storeErr}
			assert.NoError(t, handleAuditTask(repo)(context.Background(), task))
		})
	}
}

func TestIsAlreadyStored(t *testing.T) {
	assert.False(t, isAlreadyStored(nil))
	assert.False(t, isAlreadyStored(errors.New("mongo down")))
	assert.True(t, isAlreadyStored(auditRepo.ErrAuditExists))
}
