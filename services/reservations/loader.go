package reservations

import (
	"context"
	"fmt"
	"time"

	"bookingcal/models"
)

// AvailabilityReader is the read side of the availability service.
type AvailabilityReader interface {
	QueryAvailability(ctx context.Context, serviceID string, month time.Time) (*models.ServiceAvailability, error)
}

// LoadWindow projects the three months around ref, oldest first.
func LoadWindow(ctx context.Context, reader AvailabilityReader, serviceID, serviceName, category string, ref time.Time) ([]models.Reservation, error) {
	out := []models.Reservation{}
	for _, key := range GetMonthsToLoad(ref) {
		month, err := models.ParseYearMonth(key)
		if err != nil {
			return nil, err
		}
		doc, err := reader.QueryAvailability(ctx, serviceID, month)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", key, err)
		}
		out = append(out, ExtractReservations(doc, serviceName, category)...)
	}
	return out, nil
}
