package userRepo

import (
	"context"
	"fmt"
	"time"

	"bookline/database"
	"bookline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository manages caller identities keyed by contact number.
type UserRepository interface {
	GetByContactNumber(ctx context.Context, contactNumber string) (*models.User, error)
	FindOrCreate(ctx context.Context, contactNumber string) (*models.User, bool, error)
	SetName(ctx context.Context, contactNumber, name string) error
}

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	coll := database.MongoClient.Database("bookline").Collection("users")
	repo := &MongoUserRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "contactNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByContactNumber retrieves a user by contact number. Returns (nil, nil)
// when no user exists for that number.
func (r *MongoUserRepo) GetByContactNumber(ctx context.Context, contactNumber string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"contactNumber": contactNumber}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", contactNumber, err)
	}
	return &user, nil
}

// FindOrCreate returns the user for the given contact number, creating it on
// first contact. The boolean reports whether a new identity was created.
// A duplicate-key error from a concurrent first contact folds into "found".
func (r *MongoUserRepo) FindOrCreate(ctx context.Context, contactNumber string) (*models.User, bool, error) {
	existing, err := r.GetByContactNumber(ctx, contactNumber)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := time.Now()
	user := models.User{
		ContactNumber: contactNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, ferr := r.GetByContactNumber(ctx, contactNumber)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create user %s: %w", contactNumber, err)
	}
	return &user, true, nil
}

// SetName attaches a display name to an existing identity.
func (r *MongoUserRepo) SetName(ctx context.Context, contactNumber, name string) error {
	update := bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"contactNumber": contactNumber}, update)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", contactNumber, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s not found", contactNumber)
	}
	return nil
}
