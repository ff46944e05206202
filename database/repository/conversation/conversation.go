package conversationRepo

import (
	"context"
	"fmt"
	"time"

	"bookline/database"
	"bookline/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepository persists write-once records of completed calls.
type ConversationRepository interface {
	Create(ctx context.Context, record models.ConversationRecord) (string, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.ConversationRecord, error)
	GetByContactNumber(ctx context.Context, contactNumber string, limit int64) ([]models.ConversationRecord, error)
}

type mongoConversationRepo struct {
	coll *mongo.Collection
}

// NewMongoConversationRepo returns a new ConversationRepository instance
// using MongoDB.
func NewMongoConversationRepo() ConversationRepository {
	db := database.MongoClient.Database("bookline")
	return &mongoConversationRepo{
		coll: db.Collection("conversation_records"),
	}
}

// Create inserts a conversation record and returns its ID. Records are
// immutable after this write.
func (r *mongoConversationRepo) Create(ctx context.Context, record models.ConversationRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to create conversation record: %w", err)
	}
	return record.ID, nil
}

// GetBySessionID returns the record for a call session, if any.
func (r *mongoConversationRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.ConversationRecord, error) {
	var record models.ConversationRecord
	if err := r.coll.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&record); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch conversation record: %w", err)
	}
	return &record, nil
}

// GetByContactNumber returns a caller's most recent call records.
func (r *mongoConversationRepo) GetByContactNumber(ctx context.Context, contactNumber string, limit int64) ([]models.ConversationRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"contactNumber": contactNumber}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.ConversationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode conversation records: %w", err)
	}
	return records, nil
}
