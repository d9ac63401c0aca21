package availability

import (
	"context"
	"time"

	availabilityRepo "bookingcal/database/repository/availability"
	"bookingcal/models"

	"github.com/juju/clock"
	"go.uber.org/zap"
)

// AvailabilityService manages the date states and events of service calendars.
// Only the calendar date of each time.Time argument is used, read in its own location.
type AvailabilityService interface {
	Initialize(ctx context.Context, ref models.ServiceRef, month time.Time) error
	QueryAvailability(ctx context.Context, serviceID string, month time.Time) (*models.ServiceAvailability, error)
	IsDateAvailable(ctx context.Context, serviceID string, date time.Time) (bool, error)
	BlockDate(ctx context.Context, ref models.ServiceRef, date time.Time, opts BlockOptions) error
	UnblockDate(ctx context.Context, serviceID string, date time.Time) error
	AddEvent(ctx context.Context, ref models.ServiceRef, date time.Time, event models.CalendarEvent, opts AddEventOptions) (*models.CalendarEvent, error)
	UpdateEvent(ctx context.Context, serviceID string, date time.Time, eventID string, patch models.EventPatch) (*models.CalendarEvent, error)
	RemoveEvent(ctx context.Context, serviceID string, date time.Time, eventID string, isAdmin bool) error
}

// BlockOptions controls BlockDate on a day that already holds bookings.
type BlockOptions struct {
	// DiscardEvents allows blocking a booked day; the dropped events are audited.
	DiscardEvents bool
	Reason        string
	Actor         string
}

// AddEventOptions controls AddEvent on a blocked day.
type AddEventOptions struct {
	// OverrideBlocked turns a blocked day into a booked one; the override is audited.
	OverrideBlocked bool
	Actor           string
}

// DefaultAvailabilityService implements AvailabilityService on an AvailabilityRepository.
type DefaultAvailabilityService struct {
	Repo availabilityRepo.AvailabilityRepository
	// Locker is optional. Without it writers rely on version checks alone.
	Locker Locker
	// Audit is optional. Without it overrides are only logged.
	Audit  AuditSink
	Clock  clock.Clock
	Logger *zap.Logger

	// MutationAttempts and RetryDelay tune the optimistic retry loop.
	MutationAttempts int
	RetryDelay       time.Duration
}

const (
	defaultMutationAttempts = 5
	defaultRetryDelay       = 20 * time.Millisecond
)

func (s *DefaultAvailabilityService) clock() clock.Clock {
	if s.Clock == nil {
		return clock.WallClock
	}
	return s.Clock
}

func (s *DefaultAvailabilityService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultAvailabilityService) attempts() int {
	if s.MutationAttempts <= 0 {
		return defaultMutationAttempts
	}
	return s.MutationAttempts
}

func (s *DefaultAvailabilityService) retryDelay() time.Duration {
	if s.RetryDelay <= 0 {
		return defaultRetryDelay
	}
	return s.RetryDelay
}
