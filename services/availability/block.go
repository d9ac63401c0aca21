package availability

import (
	"context"
	"time"

	"bookingcal/models"

	"go.uber.org/zap"
)

// BlockDate marks the date unavailable. A booked date is only blocked when
// opts.DiscardEvents is set, and the discarded events are audited.
func (s *DefaultAvailabilityService) BlockDate(ctx context.Context, ref models.ServiceRef, date time.Time, opts BlockOptions) error {
	if err := validServiceID(ref.ServiceID); err != nil {
		return err
	}
	dateKey := models.DateKey(date)

	var discarded *models.CalendarAudit
	err := s.mutateDay(ctx, ref, date, func(current *models.CalendarDay, now time.Time) (*models.CalendarDay, error) {
		discarded = nil
		if current != nil && current.Status == models.DayBooked {
			if !opts.DiscardEvents {
				return nil, newError(ErrConflict, "%s has %d booking(s); discard them to block the date", dateKey, len(current.Events))
			}
			discarded = &models.CalendarAudit{
				Action:          models.AuditBlockDiscardedEvents,
				ServiceID:       ref.ServiceID,
				YearMonth:       models.YearMonth(date),
				DateKey:         dateKey,
				PreviousStatus:  current.Status,
				DiscardedEvents: current.Events,
				Actor:           opts.Actor,
				Reason:          opts.Reason,
				CreatedAt:       now,
			}
		}
		blockedAt := now
		return &models.CalendarDay{
			Status:      models.DayBlocked,
			Events:      []models.CalendarEvent{},
			BlockReason: opts.Reason,
			BlockedAt:   &blockedAt,
		}, nil
	})
	if err != nil {
		return err
	}

	s.logger().Debug("Date blocked", zap.String("serviceId", ref.ServiceID), zap.String("date", dateKey))
	if discarded != nil {
		s.recordAudit(ctx, *discarded)
	}
	return nil
}

// UnblockDate makes a blocked date available again. Unblocking an available date is a no-op.
func (s *DefaultAvailabilityService) UnblockDate(ctx context.Context, serviceID string, date time.Time) error {
	if err := validServiceID(serviceID); err != nil {
		return err
	}
	dateKey := models.DateKey(date)

	err := s.mutateDay(ctx, models.ServiceRef{ServiceID: serviceID}, date, func(current *models.CalendarDay, _ time.Time) (*models.CalendarDay, error) {
		if current != nil && current.Status == models.DayBooked {
			return nil, newError(ErrConflict, "%s is booked; remove its events instead", dateKey)
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	s.logger().Debug("Date unblocked", zap.String("serviceId", serviceID), zap.String("date", dateKey))
	return nil
}
