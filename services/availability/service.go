package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "bookingcal/database/repository/availability"
	"bookingcal/models"

	"go.uber.org/zap"
)

// Initialize creates an empty month document for ref if none exists yet.
func (s *DefaultAvailabilityService) Initialize(ctx context.Context, ref models.ServiceRef, month time.Time) error {
	if err := validServiceID(ref.ServiceID); err != nil {
		return err
	}
	yearMonth := models.YearMonth(month)

	_, err := s.Repo.Get(ctx, ref.ServiceID, yearMonth)
	if err == nil {
		return nil
	}
	if !errors.Is(err, availabilityRepo.ErrDocumentNotFound) {
		return fmt.Errorf("failed to load calendar: %w", err)
	}

	doc := models.NewServiceAvailability(ref, yearMonth, s.clock().Now())
	if err := s.Repo.Create(ctx, doc); err != nil && !errors.Is(err, availabilityRepo.ErrAlreadyExists) {
		return fmt.Errorf("failed to create calendar: %w", err)
	}
	s.logger().Debug("Calendar month initialized",
		zap.String("serviceId", ref.ServiceID), zap.String("yearMonth", yearMonth))
	return nil
}

// QueryAvailability returns the month document, or nil when the whole month is available.
func (s *DefaultAvailabilityService) QueryAvailability(ctx context.Context, serviceID string, month time.Time) (*models.ServiceAvailability, error) {
	if err := validServiceID(serviceID); err != nil {
		return nil, err
	}
	doc, err := s.Repo.Get(ctx, serviceID, models.YearMonth(month))
	if errors.Is(err, availabilityRepo.ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	return doc, nil
}

// IsDateAvailable reports whether nothing is stored for the date.
func (s *DefaultAvailabilityService) IsDateAvailable(ctx context.Context, serviceID string, date time.Time) (bool, error) {
	doc, err := s.QueryAvailability(ctx, serviceID, date)
	if err != nil {
		return false, err
	}
	if doc == nil {
		return true, nil
	}
	_, taken := doc.Calendar[models.DateKey(date)]
	return !taken, nil
}
