package slotRepo

import (
	"context"
	"fmt"
	"time"

	"bookline/database"
	"bookline/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepository manages the catalog of bookable calendar cells.
// The availability flag it stores is a hint only; callers re-validate
// against the appointments collection before booking decisions.
type SlotRepository interface {
	CreateMany(ctx context.Context, slots []models.Slot) ([]string, error)
	GetByDateTime(ctx context.Context, date, timeOfDay string) (*models.Slot, error)
	GetAvailableByDate(ctx context.Context, date string) ([]models.Slot, error)
	GetAvailableInRange(ctx context.Context, fromDate, toDate string) ([]models.Slot, error)
	SetAvailability(ctx context.Context, slotID string, available bool) error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database("bookline")
	repo := &mongoSlotRepo{coll: db.Collection("slots")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create slot indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
