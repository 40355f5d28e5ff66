package repositories

import (
	"context"

	"bookmarket/internal/models"
)

// UserRepository defines the interface for user data access (the identity store).
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	// AddPurchasedBook appends bookID to the user's purchase list if it is not
	// already there. It returns ErrDuplicate when the book is already present
	// and ErrNotFound when the user does not exist.
	AddPurchasedBook(ctx context.Context, userID, bookID string) error
}
