package repositories

import (
	"fmt"
	"time"

	"bookmarket/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names in the document store.
const (
	UsersCollection = "users"
	BooksCollection = "books"
)

type userDocument struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	Username       string               `bson:"username"`
	Email          string               `bson:"email"`
	Password       string               `bson:"password"`
	PurchasedBooks []primitive.ObjectID `bson:"purchasedBooks"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

func (d userDocument) toModel() models.User {
	purchased := make([]string, 0, len(d.PurchasedBooks))
	for _, id := range d.PurchasedBooks {
		purchased = append(purchased, id.Hex())
	}
	return models.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		Email:          d.Email,
		Password:       d.Password,
		PurchasedBooks: purchased,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type bookDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Author    string             `bson:"author"`
	Price     float64            `bson:"price"`
	PostedBy  primitive.ObjectID `bson:"postedBy"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d bookDocument) toModel() models.Book {
	return models.Book{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Author:    d.Author,
		Price:     d.Price,
		PostedBy:  d.PostedBy.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// objectID parses a hex identifier. Identifiers that are not valid ObjectIDs
// cannot name any stored document, so they are reported as ErrNotFound.
func objectID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s with ID %s: %w", kind, id, ErrNotFound)
	}
	return oid, nil
}
