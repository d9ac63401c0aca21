package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeys(t *testing.T) {
	at := time.Date(2024, 3, 5, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "2024-03-05", DateKey(at))
	assert.Equal(t, "2024-03", YearMonth(at))
	assert.Equal(t, "svc-9_2024-03", AvailabilityDocID("svc-9", YearMonth(at)))

	parsed, err := ParseDateKey("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), parsed)

	_, err = ParseDateKey("2024-3-5")
	assert.Error(t, err)

	month, err := ParseYearMonth("2024-12")
	require.NoError(t, err)
	assert.Equal(t, time.December, month.Month())
	assert.Equal(t, 1, month.Day())
}

func TestValidEventTime(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		assert.True(t, ValidEventTime(ok), ok)
	}
	for _, bad := range []string{"", "9:30", "24:00", "12:60", "noon", "09:30:00"} {
		assert.False(t, ValidEventTime(bad), bad)
	}
}

func TestDeletePolicy(t *testing.T) {
	assert.True(t, DeleteOpen.AllowsRemoval(false))
	assert.False(t, DeleteAdminOnly.AllowsRemoval(false))
	assert.False(t, DeleteCustomerProtected.AllowsRemoval(false))
	assert.True(t, DeleteCustomerProtected.AllowsRemoval(true))
	assert.False(t, DeletePolicy("").Valid())
	assert.True(t, DeleteAdminOnly.Valid())
}

func TestServiceAvailabilityClone(t *testing.T) {
	blockedAt := time.Now()
	doc := NewServiceAvailability(ServiceRef{ServiceID: "svc-1"}, "2024-03", time.Now())
	doc.Calendar["2024-03-01"] = CalendarDay{Status: DayBooked, Events: []CalendarEvent{{ID: "e1"}}, BlockedAt: &blockedAt}

	cp := doc.Clone()
	day := cp.Calendar["2024-03-01"]
	day.Events[0].ID = "changed"
	*day.BlockedAt = blockedAt.Add(time.Hour)
	cp.Calendar["2024-03-02"] = CalendarDay{Status: DayBlocked}

	assert.Equal(t, "e1", doc.Calendar["2024-03-01"].Events[0].ID)
	assert.Equal(t, blockedAt, *doc.Calendar["2024-03-01"].BlockedAt)
	assert.Len(t, doc.Calendar, 1)
	assert.Equal(t, int64(1), doc.Version)
}

func TestEventPatchApply(t *testing.T) {
	ev := CalendarEvent{ID: "e1", Title: "Old", StartTime: "10:00", DeletePolicy: DeleteOpen}
	title := "New"
	EventPatch{Title: &title}.Apply(&ev)
	assert.Equal(t, "New", ev.Title)
	assert.Equal(t, "10:00", ev.StartTime)
	assert.Equal(t, DeleteOpen, ev.DeletePolicy)
}
