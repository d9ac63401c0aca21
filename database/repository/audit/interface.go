package auditRepo

import (
	"context"
	"errors"

	"bookingcal/database"
	"bookingcal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrAuditExists is returned when an entry with the same ID is already stored.
var ErrAuditExists = errors.New("calendar audit entry already exists")

type CalendarAuditRepository interface {
	Create(ctx context.Context, entry models.CalendarAudit) (string, error)
	ListByService(ctx context.Context, serviceID string, limit int64) ([]models.CalendarAudit, error)
}

// CollectionName is the MongoDB collection holding audit entries.
const CollectionName = "calendar_audit"

type mongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo returns a CalendarAuditRepository backed by MongoDB.
func NewMongoAuditRepo() CalendarAuditRepository {
	return &mongoAuditRepo{
		coll: database.Database().Collection(CollectionName),
	}
}
