package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingcal/database"
	"bookingcal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the MongoDB collection holding month documents.
const CollectionName = "calendar_availability"

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return NewMongoAvailabilityRepoWithCollection(database.Database().Collection(CollectionName))
}

// NewMongoAvailabilityRepoWithCollection builds the repository on an explicit collection.
func NewMongoAvailabilityRepoWithCollection(coll *mongo.Collection) AvailabilityRepository {
	return &mongoAvailabilityRepo{coll: coll}
}

func (r *mongoAvailabilityRepo) Get(ctx context.Context, serviceID, yearMonth string) (*models.ServiceAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc models.ServiceAvailability
	err := r.coll.FindOne(ctx, bson.M{"id": models.AvailabilityDocID(serviceID, yearMonth)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error fetching availability for service %s month %s: %w", serviceID, yearMonth, err)
	}
	if doc.Calendar == nil {
		doc.Calendar = map[string]models.CalendarDay{}
	}
	return &doc, nil
}

func (r *mongoAvailabilityRepo) Create(ctx context.Context, doc *models.ServiceAvailability) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("error creating availability %s: %w", doc.ID, err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) SetDay(ctx context.Context, serviceID, yearMonth, dateKey string, day models.CalendarDay, expectedVersion int64, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			calendarField(dateKey): day,
			"updatedAt":            at,
		},
		"$inc": bson.M{"version": 1},
	}
	return r.updateVersioned(ctx, serviceID, yearMonth, expectedVersion, update)
}

func (r *mongoAvailabilityRepo) DeleteDay(ctx context.Context, serviceID, yearMonth, dateKey string, expectedVersion int64, at time.Time) error {
	update := bson.M{
		"$unset": bson.M{calendarField(dateKey): ""},
		"$set":   bson.M{"updatedAt": at},
		"$inc":   bson.M{"version": 1},
	}
	return r.updateVersioned(ctx, serviceID, yearMonth, expectedVersion, update)
}

// updateVersioned applies update only if the document still carries expectedVersion.
func (r *mongoAvailabilityRepo) updateVersioned(ctx context.Context, serviceID, yearMonth string, expectedVersion int64, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      models.AvailabilityDocID(serviceID, yearMonth),
		"version": expectedVersion,
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating availability for service %s month %s: %w", serviceID, yearMonth, err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}
