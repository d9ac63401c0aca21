package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "bookingcal/database/repository/availability"
	"bookingcal/models"

	"github.com/juju/retry"
	"go.uber.org/zap"
)

// dayMutation receives a private copy of the stored day (nil when the date is available)
// and returns the day to store. Returning nil clears the date.
type dayMutation func(current *models.CalendarDay, now time.Time) (*models.CalendarDay, error)

func isStale(err error) bool {
	return errors.Is(err, availabilityRepo.ErrVersionConflict) || errors.Is(err, availabilityRepo.ErrAlreadyExists)
}

// mutateDay applies fn to one date of ref's calendar. The document is re-read and fn
// re-applied whenever another writer got in between; a missing document is created
// with the date already populated.
func (s *DefaultAvailabilityService) mutateDay(ctx context.Context, ref models.ServiceRef, date time.Time, fn dayMutation) error {
	dateKey := models.DateKey(date)
	yearMonth := models.YearMonth(date)
	log := s.logger().With(zap.String("serviceId", ref.ServiceID), zap.String("date", dateKey))

	if s.Locker != nil {
		unlock, err := s.Locker.Lock(ctx, lockKey(ref.ServiceID, dateKey))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("Calendar lease unavailable, relying on version checks", zap.Error(err))
		} else {
			defer unlock()
		}
	}

	attempt := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := s.clock().Now()

		doc, err := s.Repo.Get(ctx, ref.ServiceID, yearMonth)
		if errors.Is(err, availabilityRepo.ErrDocumentNotFound) {
			next, err := fn(nil, now)
			if err != nil || next == nil {
				return err
			}
			doc := models.NewServiceAvailability(ref, yearMonth, now)
			doc.Calendar[dateKey] = *next
			return s.Repo.Create(ctx, doc)
		}
		if err != nil {
			return fmt.Errorf("failed to load calendar: %w", err)
		}

		var current *models.CalendarDay
		if day, ok := doc.Calendar[dateKey]; ok {
			day = day.Clone()
			current = &day
		}
		next, err := fn(current, now)
		if err != nil {
			return err
		}
		if next == nil {
			if current == nil {
				return nil
			}
			return s.Repo.DeleteDay(ctx, ref.ServiceID, yearMonth, dateKey, doc.Version, now)
		}
		return s.Repo.SetDay(ctx, ref.ServiceID, yearMonth, dateKey, *next, doc.Version, now)
	}

	var fatal error
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			err := attempt()
			if err != nil && !isStale(err) {
				fatal = err
			}
			return err
		},
		IsFatalError: func(err error) bool {
			return !isStale(err)
		},
		NotifyFunc: func(err error, attempt int) {
			log.Debug("Calendar changed concurrently, retrying", zap.Int("attempt", attempt), zap.Error(err))
		},
		Attempts:    s.attempts(),
		Delay:       s.retryDelay(),
		MaxDelay:    16 * s.retryDelay(),
		BackoffFunc: retry.DoubleDelay,
		Clock:       s.clock(),
		Stop:        ctx.Done(),
	})
	switch {
	case err == nil:
		return nil
	case fatal != nil:
		return fatal
	case retry.IsAttemptsExceeded(err):
		log.Warn("Calendar mutation gave up after concurrent writes", zap.Int("attempts", s.attempts()))
		return newError(ErrConflict, "calendar for %s on %s is being modified concurrently", ref.ServiceID, dateKey)
	case retry.IsRetryStopped(err):
		return ctx.Err()
	default:
		return fmt.Errorf("calendar mutation failed: %w", err)
	}
}

func validServiceID(serviceID string) error {
	if serviceID == "" {
		return newError(ErrInvalid, "serviceId is required")
	}
	return nil
}
