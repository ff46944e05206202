package appointmentRepo

import (
	"fmt"
	"time"

	"bookline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index names referenced by duplicate-key disambiguation.
const (
	IndexUniqueSlot     = "unique_slot_id"
	IndexUniqueDateTime = "unique_date_time"
)

// ensureIndexes creates the necessary indexes on the appointments
// collection. The two unique indexes are the booking protocol's sole
// concurrency-control mechanism. They are partial over scheduled rows:
// cancellation deletes the row and the expiry sweep marks past rows
// completed, so either way a released slot can be claimed again
// without index conflicts.
func (r *mongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	scheduledOnly := bson.M{"status": models.AppointmentScheduled}
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{{Key: "slotId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(IndexUniqueSlot).
				SetPartialFilterExpression(scheduledOnly),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(IndexUniqueDateTime).
				SetPartialFilterExpression(scheduledOnly),
		},
		{
			Keys:    bson.D{{Key: "contactNumber", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().SetName("contact_date_time_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
