package auditRepo

import (
	"context"
	"fmt"
	"time"

	"bookingcal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts an audit entry and returns its ID.
func (r *mongoAuditRepo) Create(ctx context.Context, entry models.CalendarAudit) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entry.ID, fmt.Errorf("audit %s: %w", entry.ID, ErrAuditExists)
		}
		return "", fmt.Errorf("failed to insert calendar audit: %w", err)
	}
	return entry.ID, nil
}

// ListByService returns the newest audit entries of a service first.
func (r *mongoAuditRepo) ListByService(ctx context.Context, serviceID string, limit int64) ([]models.CalendarAudit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"serviceId": serviceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar audit for %s: %w", serviceID, err)
	}
	defer cursor.Close(ctx)

	entries := []models.CalendarAudit{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
