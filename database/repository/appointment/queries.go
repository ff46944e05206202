package appointmentRepo

import (
	"context"
	"fmt"

	"bookline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves an appointment by id. Returns (nil, nil) when absent.
func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByContactNumber returns a caller's appointments ordered by (date, time).
func (r *mongoAppointmentRepo) GetByContactNumber(ctx context.Context, contactNumber string) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	return r.find(ctx, bson.M{"contactNumber": contactNumber}, opts)
}

// GetRecentByContactNumber returns a caller's most recently created
// appointments, newest first.
func (r *mongoAppointmentRepo) GetRecentByContactNumber(ctx context.Context, contactNumber string, limit int64) ([]models.Appointment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, bson.M{"contactNumber": contactNumber}, opts)
}

// GetBySlotID returns the scheduled appointment occupying a slot, if
// any. Completed rows no longer occupy anything.
func (r *mongoAppointmentRepo) GetBySlotID(ctx context.Context, slotID string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"slotId": slotID, "status": models.AppointmentScheduled})
}

// GetBySlotAndContact returns the given caller's scheduled appointment
// on a slot, if any. Used for the duplicate-invocation fast path.
func (r *mongoAppointmentRepo) GetBySlotAndContact(ctx context.Context, slotID, contactNumber string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"slotId": slotID, "contactNumber": contactNumber, "status": models.AppointmentScheduled})
}

// GetByDateTime returns the scheduled appointment occupying a
// (date, time) pair, if any.
func (r *mongoAppointmentRepo) GetByDateTime(ctx context.Context, date, timeOfDay string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"date": date, "time": timeOfDay, "status": models.AppointmentScheduled})
}

// BookedSlotIDs reports which of the given slot ids are referenced by an
// appointment. One $in query instead of a round trip per slot; this is
// the authoritative re-check behind slot discovery.
func (r *mongoAppointmentRepo) BookedSlotIDs(ctx context.Context, slotIDs []string) (map[string]bool, error) {
	booked := make(map[string]bool, len(slotIDs))
	if len(slotIDs) == 0 {
		return booked, nil
	}

	filter := bson.M{"slotId": bson.M{"$in": slotIDs}, "status": models.AppointmentScheduled}
	opts := options.Find().SetProjection(bson.M{"slotId": 1})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked slots: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			SlotID string `bson:"slotId"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode booked slot: %w", err)
		}
		booked[row.SlotID] = true
	}
	return booked, nil
}

// OtherAppointmentOnSlot returns a scheduled appointment on the slot
// other than the excluded one, if any. Used by the modify pre-check.
func (r *mongoAppointmentRepo) OtherAppointmentOnSlot(ctx context.Context, slotID, excludeID string) (*models.Appointment, error) {
	return r.findOne(ctx, bson.M{"slotId": slotID, "id": bson.M{"$ne": excludeID}, "status": models.AppointmentScheduled})
}

func (r *mongoAppointmentRepo) findOne(ctx context.Context, filter bson.M) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.coll.FindOne(ctx, filter).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Appointment, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}
