package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookmarket/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository is a MongoDB implementation of UserRepository.
type MongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository creates a new instance of MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		users: db.Collection(UsersCollection),
	}
}

// Create inserts a new user document and sets user.ID to the assigned ObjectID.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := models.Validate(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	now := time.Now().UTC()
	doc := userDocument{
		ID:             primitive.NewObjectID(),
		Username:       user.Username,
		Email:          user.Email,
		Password:       user.Password,
		PurchasedBooks: []primitive.ObjectID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to create user: %w: %v", ErrDuplicate, err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	*user = doc.toModel()
	return nil
}

// GetByID retrieves a user by their ObjectID hex string.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID("user", id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid}, id)
}

// GetByEmail retrieves a user by their email.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

// GetAll retrieves every user document.
func (r *MongoUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, nil
}

// AddPurchasedBook appends bookID with $addToSet, which is a single atomic
// conditional write: an unmodified matched document means it was already there.
func (r *MongoUserRepository) AddPurchasedBook(ctx context.Context, userID, bookID string) error {
	uid, err := objectID("user", userID)
	if err != nil {
		return err
	}
	bid, err := objectID("book", bookID)
	if err != nil {
		return err
	}

	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$addToSet": bson.M{"purchasedBooks": bid}},
	)
	if err != nil {
		return fmt.Errorf("failed to record purchase of book %s: %w", bookID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s: %w", userID, ErrNotFound)
	}
	if res.ModifiedCount == 0 {
		return fmt.Errorf("book %s already purchased by %s: %w", bookID, userID, ErrDuplicate)
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M, key string) (*models.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user matching %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user matching %q: %w", key, err)
	}
	user := doc.toModel()
	return &user, nil
}
