package slotRepo

import (
	"context"
	"fmt"
	"time"

	"bookline/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateMany inserts catalog cells, assigning ids where missing.
func (r *mongoSlotRepo) CreateMany(ctx context.Context, slots []models.Slot) ([]string, error) {
	now := time.Now()
	docs := make([]interface{}, 0, len(slots))
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		ids = append(ids, s.ID)
		docs = append(docs, s)
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to create slots: %w", err)
	}
	return ids, nil
}

// GetByDateTime retrieves the slot for an exact (date, time) pair.
// Returns (nil, nil) when no such cell exists.
func (r *mongoSlotRepo) GetByDateTime(ctx context.Context, date, timeOfDay string) (*models.Slot, error) {
	var slot models.Slot
	filter := bson.M{"date": date, "time": timeOfDay}
	if err := r.coll.FindOne(ctx, filter).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch slot %s %s: %w", date, timeOfDay, err)
	}
	return &slot, nil
}

// GetAvailableByDate returns all slots flagged available on a date,
// ordered by time.
func (r *mongoSlotRepo) GetAvailableByDate(ctx context.Context, date string) ([]models.Slot, error) {
	filter := bson.M{"date": date, "available": true}
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	return r.find(ctx, filter, opts)
}

// GetAvailableInRange returns all slots flagged available in
// [fromDate, toDate], ordered by (date, time).
func (r *mongoSlotRepo) GetAvailableInRange(ctx context.Context, fromDate, toDate string) ([]models.Slot, error) {
	filter := bson.M{
		"date":      bson.M{"$gte": fromDate, "$lte": toDate},
		"available": true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *mongoSlotRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Slot, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

// SetAvailability flips the cached availability flag. Callers treat a
// failure here as non-fatal; the appointments collection stays authoritative.
func (r *mongoSlotRepo) SetAvailability(ctx context.Context, slotID string, available bool) error {
	update := bson.M{"$set": bson.M{"available": available}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": slotID}, update)
	if err != nil {
		return fmt.Errorf("failed to update slot %s availability: %w", slotID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("slot %s not found", slotID)
	}
	return nil
}
