package availabilityRepo

import (
	"context"
	"sync"
	"time"

	"bookingcal/models"
)

// MemoryAvailabilityRepo keeps month documents in process memory. Documents are cloned on
// the way in and out so callers never share maps with the store.
type MemoryAvailabilityRepo struct {
	mu   sync.Mutex
	docs map[string]*models.ServiceAvailability
}

func NewMemoryAvailabilityRepo() *MemoryAvailabilityRepo {
	return &MemoryAvailabilityRepo{docs: make(map[string]*models.ServiceAvailability)}
}

func (r *MemoryAvailabilityRepo) Get(ctx context.Context, serviceID, yearMonth string) (*models.ServiceAvailability, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[models.AvailabilityDocID(serviceID, yearMonth)]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc.Clone(), nil
}

func (r *MemoryAvailabilityRepo) Create(ctx context.Context, doc *models.ServiceAvailability) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.ID]; ok {
		return ErrAlreadyExists
	}
	r.docs[doc.ID] = doc.Clone()
	return nil
}

func (r *MemoryAvailabilityRepo) SetDay(ctx context.Context, serviceID, yearMonth, dateKey string, day models.CalendarDay, expectedVersion int64, at time.Time) error {
	return r.update(ctx, serviceID, yearMonth, expectedVersion, at, func(doc *models.ServiceAvailability) {
		doc.Calendar[dateKey] = day.Clone()
	})
}

func (r *MemoryAvailabilityRepo) DeleteDay(ctx context.Context, serviceID, yearMonth, dateKey string, expectedVersion int64, at time.Time) error {
	return r.update(ctx, serviceID, yearMonth, expectedVersion, at, func(doc *models.ServiceAvailability) {
		delete(doc.Calendar, dateKey)
	})
}

func (r *MemoryAvailabilityRepo) update(ctx context.Context, serviceID, yearMonth string, expectedVersion int64, at time.Time, apply func(*models.ServiceAvailability)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[models.AvailabilityDocID(serviceID, yearMonth)]
	if !ok || doc.Version != expectedVersion {
		return ErrVersionConflict
	}
	if doc.Calendar == nil {
		doc.Calendar = map[string]models.CalendarDay{}
	}
	apply(doc)
	doc.Version++
	doc.UpdatedAt = at
	return nil
}

// Len returns the number of stored month documents.
func (r *MemoryAvailabilityRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}
