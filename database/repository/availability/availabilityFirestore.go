package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingcal/config"
	"bookingcal/database"
	"bookingcal/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreAvailabilityRepo struct {
	coll *firestore.CollectionRef
}

// NewFirestoreAvailabilityRepo constructs a Firestore AvailabilityRepository on the shared client.
func NewFirestoreAvailabilityRepo() AvailabilityRepository {
	return &firestoreAvailabilityRepo{coll: database.FirestoreClient.Collection(config.FirestoreCollection)}
}

func (r *firestoreAvailabilityRepo) Get(ctx context.Context, serviceID, yearMonth string) (*models.ServiceAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.coll.Doc(models.AvailabilityDocID(serviceID, yearMonth)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error fetching availability for service %s month %s: %w", serviceID, yearMonth, err)
	}

	var doc models.ServiceAvailability
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("error decoding availability %s: %w", snap.Ref.ID, err)
	}
	if doc.Calendar == nil {
		doc.Calendar = map[string]models.CalendarDay{}
	}
	return &doc, nil
}

func (r *firestoreAvailabilityRepo) Create(ctx context.Context, doc *models.ServiceAvailability) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.Doc(doc.ID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrAlreadyExists
		}
		return fmt.Errorf("error creating availability %s: %w", doc.ID, err)
	}
	return nil
}

func (r *firestoreAvailabilityRepo) SetDay(ctx context.Context, serviceID, yearMonth, dateKey string, day models.CalendarDay, expectedVersion int64, at time.Time) error {
	return r.updateVersioned(ctx, serviceID, yearMonth, expectedVersion, []firestore.Update{
		{FieldPath: firestore.FieldPath{"calendar", dateKey}, Value: day},
		{Path: "updatedAt", Value: at},
		{Path: "version", Value: firestore.Increment(1)},
	})
}

func (r *firestoreAvailabilityRepo) DeleteDay(ctx context.Context, serviceID, yearMonth, dateKey string, expectedVersion int64, at time.Time) error {
	return r.updateVersioned(ctx, serviceID, yearMonth, expectedVersion, []firestore.Update{
		{FieldPath: firestore.FieldPath{"calendar", dateKey}, Value: firestore.Delete},
		{Path: "updatedAt", Value: at},
		{Path: "version", Value: firestore.Increment(1)},
	})
}

// updateVersioned checks the version inside a transaction so the check and the
// field write commit together.
func (r *firestoreAvailabilityRepo) updateVersioned(ctx context.Context, serviceID, yearMonth string, expectedVersion int64, updates []firestore.Update) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ref := r.coll.Doc(models.AvailabilityDocID(serviceID, yearMonth))
	err := database.FirestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrVersionConflict
			}
			return err
		}
		var meta struct {
			Version int64 `firestore:"version"`
		}
		if err := snap.DataTo(&meta); err != nil {
			return err
		}
		if meta.Version != expectedVersion {
			return ErrVersionConflict
		}
		return tx.Update(ref, updates)
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return ErrVersionConflict
		}
		return fmt.Errorf("error updating availability for service %s month %s: %w", serviceID, yearMonth, err)
	}
	return nil
}
