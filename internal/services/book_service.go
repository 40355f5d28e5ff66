package services

import (
	"context"
	"errors"
	"fmt"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"

	"github.com/sirupsen/logrus"
)

// AddBookInput is the payload for listing a new book.
type AddBookInput struct {
	Name   string
	Author string
	Price  float64
}

// BookService handles business logic related to books and purchases.
type BookService struct {
	bookRepo repositories.BookRepository
	userRepo repositories.UserRepository
	events   EventPublisher
	log      logrus.FieldLogger
}

// NewBookService creates a new BookService.
func NewBookService(bookRepo repositories.BookRepository, userRepo repositories.UserRepository, events EventPublisher, log logrus.FieldLogger) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		userRepo: userRepo,
		events:   events,
		log:      log,
	}
}

// GetAllBooks retrieves all books.
func (s *BookService) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	books, err := s.bookRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return books, nil
}

// GetBookByID retrieves a single book. An unknown id yields (nil, nil).
func (s *BookService) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return book, nil
}

// AddBook lists a new book owned by the acting identity.
func (s *BookService) AddBook(ctx context.Context, actor *Identity, in AddBookInput) (*models.Book, error) {
	book := &models.Book{
		Name:     in.Name,
		Author:   in.Author,
		Price:    in.Price,
		PostedBy: actor.UserID,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	publishEvent(s.events, s.log, EventBookAdded, map[string]interface{}{
		"bookId":   book.ID,
		"name":     book.Name,
		"postedBy": book.PostedBy,
	})
	return book, nil
}

// UpdateBook applies the provided fields if the actor owns the book.
func (s *BookService) UpdateBook(ctx context.Context, actor *Identity, id string, changes models.BookChanges) (*models.Book, error) {
	if _, err := s.ownedBook(ctx, actor, id, "update"); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.Update(ctx, id, changes)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrBookNotFound
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, ErrDuplicateName
		default:
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	publishEvent(s.events, s.log, EventBookUpdated, map[string]interface{}{
		"bookId": book.ID,
		"name":   book.Name,
	})
	return book, nil
}

// DeleteBook removes the book if the actor owns it, returning the removed record.
// Purchase lists that reference it are left as they are.
func (s *BookService) DeleteBook(ctx context.Context, actor *Identity, id string) (*models.Book, error) {
	if _, err := s.ownedBook(ctx, actor, id, "delete"); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	publishEvent(s.events, s.log, EventBookDeleted, map[string]interface{}{
		"bookId": book.ID,
		"name":   book.Name,
	})
	return book, nil
}

// PurchaseBook appends bookID to the actor's purchase list and returns a
// confirmation message.
func (s *BookService) PurchaseBook(ctx context.Context, actor *Identity, bookID string) (string, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrBookNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if user.HasPurchased(book.ID) {
		return "", ErrAlreadyPurchased
	}

	// The store append is conditional, so a concurrent duplicate purchase that
	// slipped past the check above still fails here.
	if err := s.userRepo.AddPurchasedBook(ctx, user.ID, book.ID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return "", ErrAlreadyPurchased
		case errors.Is(err, repositories.ErrNotFound):
			return "", ErrUserNotFound
		default:
			return "", fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	publishEvent(s.events, s.log, EventBookPurchased, map[string]interface{}{
		"bookId": book.ID,
		"userId": user.ID,
		"price":  book.Price,
	})
	return fmt.Sprintf("%s purchased successfully", book.Name), nil
}

// ownedBook loads the book and enforces the ownership gate.
func (s *BookService) ownedBook(ctx context.Context, actor *Identity, id, action string) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if book.PostedBy != actor.UserID {
		return nil, &ForbiddenError{Action: action}
	}
	return book, nil
}
