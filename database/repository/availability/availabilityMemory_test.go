package availabilityRepo

import (
	"context"
	"testing"
	"time"

	"bookingcal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_CreateGetAndVersioning(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAvailabilityRepo()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)

	_, err := repo.Get(ctx, "svc-1", "2024-03")
	require.ErrorIs(t, err, ErrDocumentNotFound)

	doc := models.NewServiceAvailability(models.ServiceRef{ServiceID: "svc-1", VendorID: "v-1"}, "2024-03", now)
	require.NoError(t, repo.Create(ctx, doc))
	require.ErrorIs(t, repo.Create(ctx, doc), ErrAlreadyExists)

	day := models.CalendarDay{Status: models.DayBlocked, Events: []models.CalendarEvent{}}
	require.NoError(t, repo.SetDay(ctx, "svc-1", "2024-03", "2024-03-15", day, 1, now))

	// A writer holding the old version loses.
	err = repo.SetDay(ctx, "svc-1", "2024-03", "2024-03-16", day, 1, now)
	require.ErrorIs(t, err, ErrVersionConflict)

	got, err := repo.Get(ctx, "svc-1", "2024-03")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Contains(t, got.Calendar, "2024-03-15")
	assert.NotContains(t, got.Calendar, "2024-03-16")

	require.NoError(t, repo.DeleteDay(ctx, "svc-1", "2024-03", "2024-03-15", 2, now))
	got, err = repo.Get(ctx, "svc-1", "2024-03")
	require.NoError(t, err)
	assert.Empty(t, got.Calendar)
	assert.Equal(t, int64(3), got.Version)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAvailabilityRepo()
	doc := models.NewServiceAvailability(models.ServiceRef{ServiceID: "svc-1"}, "2024-03", time.Now())
	require.NoError(t, repo.Create(ctx, doc))

	got, err := repo.Get(ctx, "svc-1", "2024-03")
	require.NoError(t, err)
	got.Calendar["2024-03-01"] = models.CalendarDay{Status: models.DayBooked}

	again, err := repo.Get(ctx, "svc-1", "2024-03")
	require.NoError(t, err)
	assert.Empty(t, again.Calendar)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryRepo_UpdateMissingDocumentConflicts(t *testing.T) {
	repo := NewMemoryAvailabilityRepo()
	err := repo.DeleteDay(context.Background(), "svc-x", "2024-03", "2024-03-01", 1, time.Now())
	require.ErrorIs(t, err, ErrVersionConflict)
}
