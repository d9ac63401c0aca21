package availability

import (
	"context"
	"time"

	"bookingcal/models"

	"go.uber.org/zap"
)

// AddEvent appends event to the date and marks it booked. The stored event is returned.
func (s *DefaultAvailabilityService) AddEvent(ctx context.Context, ref models.ServiceRef, date time.Time, event models.CalendarEvent, opts AddEventOptions) (*models.CalendarEvent, error) {
	if err := validServiceID(ref.ServiceID); err != nil {
		return nil, err
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if event.DeletePolicy == "" {
		event.DeletePolicy = models.DeleteAdminOnly
	}
	dateKey := models.DateKey(date)

	var (
		stored   models.CalendarEvent
		override *models.CalendarAudit
	)
	err := s.mutateDay(ctx, ref, date, func(current *models.CalendarDay, now time.Time) (*models.CalendarDay, error) {
		override = nil
		stored = event
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}

		if current == nil {
			return &models.CalendarDay{Status: models.DayBooked, Events: []models.CalendarEvent{stored}}, nil
		}
		if current.EventIndex(stored.ID) >= 0 {
			return nil, newError(ErrConflict, "event %s already exists on %s", stored.ID, dateKey)
		}

		if current.Status == models.DayBlocked {
			if !opts.OverrideBlocked {
				return nil, newError(ErrConflict, "%s is blocked", dateKey)
			}
			override = &models.CalendarAudit{
				Action:          models.AuditEventOverrodeBlock,
				ServiceID:       ref.ServiceID,
				YearMonth:       models.YearMonth(date),
				DateKey:         dateKey,
				PreviousStatus:  current.Status,
				DiscardedEvents: current.Events,
				Actor:           opts.Actor,
				Reason:          current.BlockReason,
				CreatedAt:       now,
			}
			return &models.CalendarDay{
				Status: models.DayBooked,
				Events: append(current.Events, stored),
			}, nil
		}

		current.Status = models.DayBooked
		current.Events = append(current.Events, stored)
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger().Debug("Event added",
		zap.String("serviceId", ref.ServiceID), zap.String("date", dateKey), zap.String("eventId", stored.ID))
	if override != nil {
		s.recordAudit(ctx, *override)
	}
	return &stored, nil
}

// UpdateEvent merges patch into the event and returns the result.
func (s *DefaultAvailabilityService) UpdateEvent(ctx context.Context, serviceID string, date time.Time, eventID string, patch models.EventPatch) (*models.CalendarEvent, error) {
	if err := validServiceID(serviceID); err != nil {
		return nil, err
	}
	if eventID == "" {
		return nil, newError(ErrInvalid, "event id is required")
	}
	for _, t := range []*string{patch.StartTime, patch.EndTime} {
		if t != nil && !models.ValidEventTime(*t) {
			return nil, newError(ErrInvalid, "event time %q must be HH:MM", *t)
		}
	}
	dateKey := models.DateKey(date)

	var updated models.CalendarEvent
	err := s.mutateDay(ctx, models.ServiceRef{ServiceID: serviceID}, date, func(current *models.CalendarDay, _ time.Time) (*models.CalendarDay, error) {
		if current == nil {
			return nil, newError(ErrNotFound, "no events on %s", dateKey)
		}
		i := current.EventIndex(eventID)
		if i < 0 {
			return nil, newError(ErrNotFound, "event %s not found on %s", eventID, dateKey)
		}
		patch.Apply(&current.Events[i])
		updated = current.Events[i]
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger().Debug("Event updated",
		zap.String("serviceId", serviceID), zap.String("date", dateKey), zap.String("eventId", eventID))
	return &updated, nil
}

// RemoveEvent deletes the event. The date becomes available once its last event is gone.
// Without isAdmin only events whose policy is open may be removed.
func (s *DefaultAvailabilityService) RemoveEvent(ctx context.Context, serviceID string, date time.Time, eventID string, isAdmin bool) error {
	if err := validServiceID(serviceID); err != nil {
		return err
	}
	if eventID == "" {
		return newError(ErrInvalid, "event id is required")
	}
	dateKey := models.DateKey(date)

	err := s.mutateDay(ctx, models.ServiceRef{ServiceID: serviceID}, date, func(current *models.CalendarDay, _ time.Time) (*models.CalendarDay, error) {
		if current == nil {
			return nil, newError(ErrNotFound, "no events on %s", dateKey)
		}
		i := current.EventIndex(eventID)
		if i < 0 {
			return nil, newError(ErrNotFound, "event %s not found on %s", eventID, dateKey)
		}
		if !current.Events[i].DeletePolicy.AllowsRemoval(isAdmin) {
			return nil, newError(ErrForbidden, "event %s can only be removed by an administrator", eventID)
		}
		current.Events = append(current.Events[:i], current.Events[i+1:]...)
		if len(current.Events) == 0 {
			return nil, nil
		}
		return current, nil
	})
	if err != nil {
		return err
	}

	s.logger().Debug("Event removed",
		zap.String("serviceId", serviceID), zap.String("date", dateKey),
		zap.String("eventId", eventID), zap.Bool("admin", isAdmin))
	return nil
}

func validateEvent(ev models.CalendarEvent) error {
	if ev.ID == "" {
		return newError(ErrInvalid, "event id is required")
	}
	if !models.ValidEventTime(ev.StartTime) || !models.ValidEventTime(ev.EndTime) {
		return newError(ErrInvalid, "event times must be HH:MM, got %q-%q", ev.StartTime, ev.EndTime)
	}
	if !ev.DeletePolicy.Valid() && ev.DeletePolicy != "" {
		return newError(ErrInvalid, "unknown delete policy %q", ev.DeletePolicy)
	}
	return nil
}
