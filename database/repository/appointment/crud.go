package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"bookline/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new appointment row directly. No pre-insert existence
// check is made for other callers: the unique indexes reject a taken slot
// atomically, which no interleaving can subvert. On violation the caller
// receives a *DuplicateKeyError to disambiguate.
func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	if appt.Status == "" {
		appt.Status = models.AppointmentScheduled
	}

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if dup := asDuplicate(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// UpdateSlot atomically moves an appointment to a new slot. The unique
// index on slotId rejects the update when another appointment already
// holds the target slot, surfacing as *DuplicateKeyError just like Create.
func (r *mongoAppointmentRepo) UpdateSlot(ctx context.Context, id, newSlotID, newDate, newTime string) error {
	update := bson.M{"$set": bson.M{
		"slotId":    newSlotID,
		"date":      newDate,
		"time":      newTime,
		"updatedAt": time.Now(),
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		if dup := asDuplicate(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update appointment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}
	return nil
}

// Delete removes an appointment row, releasing its slot reference.
func (r *mongoAppointmentRepo) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete appointment %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}
	return nil
}

// MarkCompletedBefore transitions scheduled appointments whose (date, time)
// lies strictly before the given moment to completed. Used by the expiry
// sweep.
func (r *mongoAppointmentRepo) MarkCompletedBefore(ctx context.Context, date, timeOfDay string) (int64, error) {
	filter := bson.M{
		"status": models.AppointmentScheduled,
		"$or": bson.A{
			bson.M{"date": bson.M{"$lt": date}},
			bson.M{"date": date, "time": bson.M{"$lt": timeOfDay}},
		},
	}
	update := bson.M{"$set": bson.M{
		"status":    models.AppointmentCompleted,
		"updatedAt": time.Now(),
	}}

	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark appointments completed: %w", err)
	}
	return result.ModifiedCount, nil
}
