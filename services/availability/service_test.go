package availability

import (
	"context"
	"sync"
	"testing"
	"time"

	availabilityRepo "bookingcal/database/repository/availability"
	"bookingcal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []models.CalendarAudit
}

func (r *recordingSink) Record(_ context.Context, entry models.CalendarAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingSink) all() []models.CalendarAudit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.CalendarAudit(nil), r.entries...)
}

func newTestService(t *testing.T) (*DefaultAvailabilityService, *availabilityRepo.MemoryAvailabilityRepo, *recordingSink) {
	t.Helper()
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	sink := &recordingSink{}
	svc := &DefaultAvailabilityService{
		Repo:             repo,
		Audit:            sink,
		MutationAttempts: 50,
		RetryDelay:       time.Millisecond,
	}
	return svc, repo, sink
}

var (
	testRef = models.ServiceRef{ServiceID: "svc-1", VendorID: "vendor-1", CityID: "nairobi", Category: "venue"}
	march15 = time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)
)

func testEvent(id string) models.CalendarEvent {
	return models.CalendarEvent{
		ID:        id,
		Title:     "Wedding " + id,
		EventType: "wedding",
		StartTime: "10:00",
		EndTime:   "18:00",
	}
}

func TestIsDateAvailable_NoDocument(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	ok, err := svc.IsDateAvailable(ctx, "svc-1", march15)
	require.NoError(t, err)
	assert.True(t, ok)

	doc, err := svc.QueryAvailability(ctx, "svc-1", march15)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestInitialize_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Initialize(ctx, testRef, march15))
	require.NoError(t, svc.Initialize(ctx, testRef, march15))
	assert.Equal(t, 1, repo.Len())

	doc, err := svc.QueryAvailability(ctx, "svc-1", march15)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "svc-1_2024-03", doc.ID)
	assert.Equal(t, "vendor-1", doc.VendorID)
	assert.Equal(t, "venue", doc.ServiceCategory)
	assert.Empty(t, doc.Calendar)

	ok, err := svc.IsDateAvailable(ctx, "svc-1", march15)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlockThenUnblockRestoresAvailability(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.BlockDate(ctx, testRef, march15, BlockOptions{Reason: "maintenance"}))

	ok, err := svc.IsDateAvailable(ctx, "svc-1", march15)
	require.NoError(t, err)
	assert.False(t, ok)

	doc, err := svc.QueryAvailability(ctx, "svc-1", march15)
	require.NoError(t, err)
	day := doc.Calendar["2024-03-15"]
	assert.Equal(t, models.DayBlocked, day.Status)
	assert.Empty(t, day.Events)
	assert.Equal(t, "maintenance", day.BlockReason)
	assert.NotNil(t, day.BlockedAt)

	other, err := svc.IsDateAvailable(ctx, "svc-1", march15.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, other)

	require.NoError(t, svc.UnblockDate(ctx, "svc-1", march15))
	ok, err = svc.IsDateAvailable(ctx, "svc-1", march15)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUnblockAvailableDateIsNoop(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.UnblockDate(ctx, "svc-1", march15))
	assert.Equal(t, 0, repo.Len())
}

func TestReblockRefreshesReason(t *testing.T) {
	svc, _, sink := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.BlockDate(ctx, testRef, march15, BlockOptions{Reason: "first"}))
	require.NoError(t, svc.BlockDate(ctx, testRef, march15, BlockOptions{Reason: "second"}))

	doc, err := svc.QueryAvailability(ctx, "svc-1", march15)
	require.NoError(t, err)
	assert.Equal(t, "second", doc.Calendar["2024-03-15"].BlockReason)
	assert.Empty(t, sink.all())
}

func TestBlockBookedDate(t *testing.T) {
	svc, _, sink := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddEvent(ctx, testRef, march15, testEvent("e1"), AddEventOptions{})
	require.NoError(t, err)

	err = svc.BlockDate(ctx, testRef, march15, BlockOptions{Reason: "storm"})
	require.ErrorIs(t, err, ErrConflict)

	doc, err := svc.QueryAvailability(ctx, "svc-1", march15)
	require.NoError(t, err)
	assert.Equal(t, models.DayBooked, doc.Calendar["2024-03-15"].Status)
	assert.Empty(t, sink.all())

	err = svc.BlockDate(ctx, testRef, march15, BlockOptions{DiscardEvents: true, Reason: "storm", Actor: "vendor-1"})
	require.NoError(t, err)

	doc, err = svc.QueryAvailability(ctx, "svc-1", march15)
	require.NoError(t, err)
	assert.Equal(t, models.DayBlocked, doc.Calendar["2024-03-15"].Status)
	assert.Empty(t, doc.Calendar["2024-03-15"].Events)

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditBlockDiscardedEvents, entries[0].Action)
	assert.Equal(t, "2024-03-15", entries[0].DateKey)
	assert.Equal(t, "2024-03", entries[0].YearMonth)
	assert.Equal(t, models.DayBooked, entries[0].PreviousStatus)
	assert.Equal(t, "vendor-1", entries[0].Actor)
	assert.NotEmpty(t, entries[0].ID)
	require.Len(t, entries[0].DiscardedEvents, 1)
	assert.Equal(t, "e1", entries[0].DiscardedEvents[0].ID)
}

func TestUnblockBookedDateConflicts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddEvent(ctx, testRef, march15, testEvent("e1"), AddEventOptions{})
	require.NoError(t, err)

	err = svc.UnblockDate(ctx, "svc-1", march15)
	require.ErrorIs(t, err, ErrConflict)
}

func TestInvalidServiceID(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.Initialize(ctx, models.ServiceRef{}, march15), ErrInvalid)
	_, err := svc.QueryAvailability(ctx, "", march15)
	require.ErrorIs(t, err, ErrInvalid)
	require.ErrorIs(t, svc.BlockDate(ctx, models.ServiceRef{}, march15, BlockOptions{}), ErrInvalid)
	require.ErrorIs(t, svc.UnblockDate(ctx, "", march15), ErrInvalid)
}

type staleRepo struct {
	*availabilityRepo.MemoryAvailabilityRepo
	calls int
}

func (r *staleRepo) SetDay(context.Context, string, string, string, models.CalendarDay, int64, time.Time) error {
	r.calls++
	return availabilityRepo.ErrVersionConflict
}

func TestMutationGivesUpWithConflict(t *testing.T) {
	repo := &staleRepo{MemoryAvailabilityRepo: availabilityRepo.NewMemoryAvailabilityRepo()}
	svc := &DefaultAvailabilityService{Repo: repo, MutationAttempts: 3, RetryDelay: time.Millisecond}
	ctx := context.Background()

	require.NoError(t, svc.Initialize(ctx, testRef, march15))
	err := svc.BlockDate(ctx, testRef, march15, BlockOptions{})
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 3, repo.calls)

	var calErr *CalendarError
	require.ErrorAs(t, err, &calErr)
	assert.Contains(t, calErr.Message, "2024-03-15")
}

func TestMutationStopsOnCancelledContext(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.BlockDate(ctx, testRef, march15, BlockOptions{})
	require.ErrorIs(t, err, context.Canceled)
}
