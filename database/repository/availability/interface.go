// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"errors"
	"time"

	"bookingcal/models"
)

var (
	// ErrDocumentNotFound means no month document exists; every date of that month is available.
	ErrDocumentNotFound = errors.New("availability document not found")
	// ErrAlreadyExists is returned by Create when another writer created the month first.
	ErrAlreadyExists = errors.New("availability document already exists")
	// ErrVersionConflict is returned when the document changed since it was read.
	ErrVersionConflict = errors.New("availability document version conflict")
)

// AvailabilityRepository stores one document per (service, month).
// SetDay and DeleteDay write a single calendar field and only succeed when the stored
// version still equals expectedVersion; on success the store bumps the version by one.
type AvailabilityRepository interface {
	Get(ctx context.Context, serviceID, yearMonth string) (*models.ServiceAvailability, error)
	Create(ctx context.Context, doc *models.ServiceAvailability) error
	SetDay(ctx context.Context, serviceID, yearMonth, dateKey string, day models.CalendarDay, expectedVersion int64, at time.Time) error
	DeleteDay(ctx context.Context, serviceID, yearMonth, dateKey string, expectedVersion int64, at time.Time) error
}

func calendarField(dateKey string) string {
	return "calendar." + dateKey
}
