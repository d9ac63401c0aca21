package reservations

import (
	"sort"
	"time"

	"bookingcal/models"
)

// SortReservations returns a copy of entries ordered by date. Entries on the same
// date keep their relative order.
func SortReservations(entries []models.Reservation, ascending bool) []models.Reservation {
	out := append([]models.Reservation{}, entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// FilterByMonthYear keeps entries in the given month (1-12) and year. Zero matches any.
func FilterByMonthYear(entries []models.Reservation, month, year int) []models.Reservation {
	return filter(entries, func(r models.Reservation) bool {
		if month != 0 && int(r.Date.Month()) != month {
			return false
		}
		return year == 0 || r.Date.Year() == year
	})
}

// FilterByDateRange keeps entries between the start and end dates, both inclusive.
// A zero start or end leaves that side open.
func FilterByDateRange(entries []models.Reservation, start, end time.Time) []models.Reservation {
	var from, to time.Time
	if !start.IsZero() {
		from = StartOfDay(start)
	}
	if !end.IsZero() {
		to = EndOfDay(end)
	}
	return filter(entries, func(r models.Reservation) bool {
		if !from.IsZero() && r.Date.Before(from) {
			return false
		}
		return to.IsZero() || !r.Date.After(to)
	})
}

// FilterByStatus keeps entries with the given status.
func FilterByStatus(entries []models.Reservation, status models.DayStatus) []models.Reservation {
	return filter(entries, func(r models.Reservation) bool {
		return r.Status == status
	})
}

// GetUpcomingReservations returns entries dated today or later, soonest first.
// count <= 0 returns all of them.
func GetUpcomingReservations(entries []models.Reservation, now time.Time, count int) []models.Reservation {
	today := StartOfDay(now)
	upcoming := SortReservations(filter(entries, func(r models.Reservation) bool {
		return !r.Date.Before(today)
	}), true)
	if count > 0 && len(upcoming) > count {
		upcoming = upcoming[:count]
	}
	return upcoming
}

// StartOfDay is local midnight of t's calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// EndOfDay is 23:59:59.999 local time on t's calendar date, including on DST transition days.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.Local)
}

func filter(entries []models.Reservation, keep func(models.Reservation) bool) []models.Reservation {
	out := make([]models.Reservation, 0, len(entries))
	for _, r := range entries {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
