// Package reservations turns calendar documents into the reservation lists shown on
// dashboards. Everything here is pure; callers fetch documents themselves.
package reservations

import (
	"sort"

	"bookingcal/models"
)

// ExtractReservations lists every stored day of doc, ordered by date.
// Days whose key does not parse are skipped.
func ExtractReservations(doc *models.ServiceAvailability, serviceName, category string) []models.Reservation {
	if doc == nil || len(doc.Calendar) == 0 {
		return []models.Reservation{}
	}
	if category == "" {
		category = doc.ServiceCategory
	}

	keys := make([]string, 0, len(doc.Calendar))
	for key := range doc.Calendar {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]models.Reservation, 0, len(keys))
	for _, key := range keys {
		day := doc.Calendar[key]
		if day.Status != models.DayBooked && day.Status != models.DayBlocked {
			continue
		}
		date, err := models.ParseDateKey(key)
		if err != nil {
			continue
		}
		out = append(out, models.Reservation{
			ServiceID:   doc.ServiceID,
			VendorID:    doc.VendorID,
			CityID:      doc.CityID,
			ServiceName: serviceName,
			Category:    category,
			DateKey:     key,
			Date:        date,
			Status:      day.Status,
			BlockReason: day.BlockReason,
			Events:      append([]models.CalendarEvent{}, day.Events...),
		})
	}
	return out
}
