package services

import (
	"context"
	"fmt"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"
)

// UserWithBooks pairs a user with a precomputed book list.
type UserWithBooks struct {
	User  models.User
	Books []models.Book
}

// UserService serves the read side of accounts.
type UserService struct {
	userRepo repositories.UserRepository
	bookRepo repositories.BookRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, bookRepo repositories.BookRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		bookRepo: bookRepo,
	}
}

// ListUsersWithPostedBooks returns every user, each paired with the books that
// user posted. The admin listing exposes these as the user's purchasedBooks.
func (s *UserService) ListUsersWithPostedBooks(ctx context.Context) ([]UserWithBooks, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]UserWithBooks, 0, len(users))
	for _, u := range users {
		books, err := s.bookRepo.GetByPoster(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("books posted by %s: %w", u.ID, err)
		}
		result = append(result, UserWithBooks{User: u, Books: books})
	}
	return result, nil
}

// PurchasedBooks loads the books referenced by user.PurchasedBooks. References
// to deleted books are dropped.
func (s *UserService) PurchasedBooks(ctx context.Context, user *models.User) ([]models.Book, error) {
	return s.bookRepo.GetByIDs(ctx, user.PurchasedBooks)
}
