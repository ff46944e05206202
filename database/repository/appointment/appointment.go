package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"bookline/database"
	"bookline/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AppointmentRepository manages caller appointments. The collection's
// unique indexes on slotId and on (date, time) are the system's only
// cross-caller concurrency control: writes race at the index, not in
// application code, and losers surface as *DuplicateKeyError.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	GetByContactNumber(ctx context.Context, contactNumber string) ([]models.Appointment, error)
	GetRecentByContactNumber(ctx context.Context, contactNumber string, limit int64) ([]models.Appointment, error)
	GetBySlotID(ctx context.Context, slotID string) (*models.Appointment, error)
	GetBySlotAndContact(ctx context.Context, slotID, contactNumber string) (*models.Appointment, error)
	GetByDateTime(ctx context.Context, date, timeOfDay string) (*models.Appointment, error)
	BookedSlotIDs(ctx context.Context, slotIDs []string) (map[string]bool, error)
	OtherAppointmentOnSlot(ctx context.Context, slotID, excludeID string) (*models.Appointment, error)
	UpdateSlot(ctx context.Context, id, newSlotID, newDate, newTime string) error
	Delete(ctx context.Context, id string) error
	MarkCompletedBefore(ctx context.Context, date, timeOfDay string) (int64, error)
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database("bookline")
	repo := &mongoAppointmentRepo{coll: db.Collection("appointments")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create appointment indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
