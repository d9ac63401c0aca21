// FILE: database/repository/availability/indexes.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAvailabilityIndexes creates the indexes the calendar collection relies on.
// The unique id index is what turns a racing Create into ErrAlreadyExists.
func EnsureAvailabilityIndexes(coll *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "serviceId", Value: 1}, {Key: "yearMonth", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("service_month_idx"),
		},
		{
			Keys:    bson.D{{Key: "vendorId", Value: 1}, {Key: "yearMonth", Value: 1}},
			Options: options.Index().SetName("vendor_month_idx"),
		},
		{
			Keys:    bson.D{{Key: "cityId", Value: 1}, {Key: "serviceCategory", Value: 1}, {Key: "yearMonth", Value: 1}},
			Options: options.Index().SetName("city_category_month_idx"),
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}
