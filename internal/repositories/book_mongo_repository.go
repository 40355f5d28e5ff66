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

// MongoBookRepository is a MongoDB implementation of BookRepository.
type MongoBookRepository struct {
	books *mongo.Collection
}

// NewMongoBookRepository creates a new instance of MongoBookRepository.
func NewMongoBookRepository(db *mongo.Database) *MongoBookRepository {
	return &MongoBookRepository{
		books: db.Collection(BooksCollection),
	}
}

// Create inserts a new book document and sets book.ID to the assigned ObjectID.
func (r *MongoBookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := models.Validate(book); err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	poster, err := objectID("user", book.PostedBy)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	now := time.Now().UTC()
	doc := bookDocument{
		ID:        primitive.NewObjectID(),
		Name:      book.Name,
		Author:    book.Author,
		Price:     book.Price,
		PostedBy:  poster,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.books.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to create book: %w: %v", ErrDuplicate, err)
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	*book = doc.toModel()
	return nil
}

// GetByID retrieves a single book by its ObjectID hex string.
func (r *MongoBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	oid, err := objectID("book", id)
	if err != nil {
		return nil, err
	}

	var doc bookDocument
	if err := r.books.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	book := doc.toModel()
	return &book, nil
}

// GetAll retrieves all books.
func (r *MongoBookRepository) GetAll(ctx context.Context) ([]models.Book, error) {
	return r.find(ctx, bson.M{})
}

// GetByIDs retrieves the books with the given IDs, in the order of ids.
func (r *MongoBookRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Book, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []models.Book{}, nil
	}

	books, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	return orderByIDs(books, ids), nil
}

// GetByPoster retrieves all books posted by the given user.
func (r *MongoBookRepository) GetByPoster(ctx context.Context, userID string) ([]models.Book, error) {
	poster, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []models.Book{}, nil
	}
	return r.find(ctx, bson.M{"postedBy": poster})
}

// Update applies the provided fields to an existing book and returns the result.
func (r *MongoBookRepository) Update(ctx context.Context, id string, changes models.BookChanges) (*models.Book, error) {
	book, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return book, nil
	}

	changes.Apply(book)
	if err := models.Validate(book); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	book.UpdatedAt = time.Now().UTC()

	set := bson.M{"updatedAt": book.UpdatedAt}
	if changes.Name != nil {
		set["name"] = book.Name
	}
	if changes.Author != nil {
		set["author"] = book.Author
	}
	if changes.Price != nil {
		set["price"] = book.Price
	}

	oid, _ := primitive.ObjectIDFromHex(book.ID)
	res, err := r.books.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to update book: %w: %v", ErrDuplicate, err)
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return book, nil
}

// Delete removes a book and returns the document as it was before deletion.
func (r *MongoBookRepository) Delete(ctx context.Context, id string) (*models.Book, error) {
	oid, err := objectID("book", id)
	if err != nil {
		return nil, err
	}

	var doc bookDocument
	if err := r.books.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete book: %w", err)
	}
	book := doc.toModel()
	return &book, nil
}

func (r *MongoBookRepository) find(ctx context.Context, filter bson.M) ([]models.Book, error) {
	cur, err := r.books.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find books: %w", err)
	}
	defer cur.Close(ctx)

	var docs []bookDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}
	books := make([]models.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.toModel())
	}
	return books, nil
}
