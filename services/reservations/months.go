package reservations

import (
	"sort"
	"time"

	"bookingcal/models"
)

// GetMonthsToLoad returns the month keys before, of and after ref.
func GetMonthsToLoad(ref time.Time) []string {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return []string{
		models.YearMonth(first.AddDate(0, -1, 0)),
		models.YearMonth(first),
		models.YearMonth(first.AddDate(0, 1, 0)),
	}
}

// ExtractUniqueYears returns the distinct years of entries, newest first.
func ExtractUniqueYears(entries []models.Reservation) []int {
	seen := make(map[int]struct{})
	years := []int{}
	for _, r := range entries {
		y := r.Date.Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
