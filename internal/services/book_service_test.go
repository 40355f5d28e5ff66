package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"
	"bookmarket/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	owner    = &services.Identity{UserID: "owner-1", Email: "owner@example.com"}
	stranger = &services.Identity{UserID: "stranger-1", Email: "stranger@example.com"}
)

func newBookService(books *MockBookRepository, users *MockUserRepository, pub services.EventPublisher) *services.BookService {
	return services.NewBookService(books, users, pub, quietLogger())
}

func TestBookService_AddBook(t *testing.T) {
	ctx := context.Background()
	books := new(MockBookRepository)
	pub := new(MockPublisher)
	service := newBookService(books, new(MockUserRepository), pub)

	books.On("Create", ctx, mock.MatchedBy(func(b *models.Book) bool {
		return b.Name == "Dune" && b.PostedBy == owner.UserID
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Book).ID = "book-1"
	}).Return(nil).Once()
	pub.On("Publish", services.EventBookAdded, mock.Anything).Return(errors.New("broker down")).Once()

	book, err := service.AddBook(ctx, owner, services.AddBookInput{Name: "Dune", Author: "Herbert", Price: 9.99})
	require.NoError(t, err, "publish failures do not fail the mutation")
	assert.Equal(t, "book-1", book.ID)
	assert.Equal(t, owner.UserID, book.PostedBy)

	books.On("Create", ctx, mock.AnythingOfType("*models.Book")).Return(fmt.Errorf("failed to create book: %w", repositories.ErrDuplicate)).Once()
	_, err = service.AddBook(ctx, owner, services.AddBookInput{Name: "Dune", Author: "Herbert", Price: 9.99})
	assert.ErrorIs(t, err, services.ErrDuplicateName)

	books.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestBookService_UpdateBook(t *testing.T) {
	ctx := context.Background()
	books := new(MockBookRepository)
	service := newBookService(books, new(MockUserRepository), nil)

	existing := &models.Book{ID: "book-1", Name: "Dune", Author: "Herbert", Price: 9.99, PostedBy: owner.UserID}
	price := 12.0
	changes := models.BookChanges{Price: &price}

	// Owner may update
	books.On("GetByID", ctx, "book-1").Return(existing, nil).Once()
	books.On("Update", ctx, "book-1", changes).Return(&models.Book{ID: "book-1", Name: "Dune", Author: "Herbert", Price: 12.0, PostedBy: owner.UserID}, nil).Once()
	updated, err := service.UpdateBook(ctx, owner, "book-1", changes)
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.Price)

	// Someone else may not
	books.On("GetByID", ctx, "book-1").Return(existing, nil).Once()
	_, err = service.UpdateBook(ctx, stranger, "book-1", changes)
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.EqualError(t, err, "You are not authorized to update this book")

	// Unknown book
	books.On("GetByID", ctx, "missing").Return(nil, repositories.ErrNotFound).Once()
	_, err = service.UpdateBook(ctx, owner, "missing", changes)
	assert.ErrorIs(t, err, services.ErrBookNotFound)

	books.AssertNumberOfCalls(t, "Update", 1)
	books.AssertExpectations(t)
}

func TestBookService_DeleteBook(t *testing.T) {
	ctx := context.Background()
	books := new(MockBookRepository)
	service := newBookService(books, new(MockUserRepository), nil)
	existing := &models.Book{ID: "book-1", Name: "Dune", PostedBy: owner.UserID}

	books.On("GetByID", ctx, "book-1").Return(existing, nil).Once()
	_, err := service.DeleteBook(ctx, stranger, "book-1")
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.EqualError(t, err, "You are not authorized to delete this book")

	books.On("GetByID", ctx, "book-1").Return(existing, nil).Once()
	books.On("Delete", ctx, "book-1").Return(existing, nil).Once()
	deleted, err := service.DeleteBook(ctx, owner, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", deleted.Name)

	books.AssertNumberOfCalls(t, "Delete", 1)
	books.AssertExpectations(t)
}

func TestBookService_PurchaseBook(t *testing.T) {
	ctx := context.Background()
	books := new(MockBookRepository)
	users := new(MockUserRepository)
	pub := new(MockPublisher)
	service := newBookService(books, users, pub)

	book := &models.Book{ID: "book-1", Name: "Dune", Price: 9.99, PostedBy: owner.UserID}
	buyer := &models.User{ID: stranger.UserID, Username: "stranger"}

	books.On("GetByID", ctx, "book-1").Return(book, nil)
	users.On("GetByID", ctx, stranger.UserID).Return(buyer, nil).Once()
	users.On("AddPurchasedBook", ctx, stranger.UserID, "book-1").Return(nil).Once()
	pub.On("Publish", services.EventBookPurchased, mock.Anything).Return(nil).Once()

	msg, err := service.PurchaseBook(ctx, stranger, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune purchased successfully", msg)

	// Already in the list
	users.On("GetByID", ctx, stranger.UserID).Return(&models.User{ID: stranger.UserID, PurchasedBooks: []string{"book-1"}}, nil).Once()
	_, err = service.PurchaseBook(ctx, stranger, "book-1")
	assert.ErrorIs(t, err, services.ErrAlreadyPurchased)

	// Lost a race with a concurrent purchase
	users.On("GetByID", ctx, stranger.UserID).Return(buyer, nil).Once()
	users.On("AddPurchasedBook", ctx, stranger.UserID, "book-1").Return(repositories.ErrDuplicate).Once()
	_, err = service.PurchaseBook(ctx, stranger, "book-1")
	assert.ErrorIs(t, err, services.ErrAlreadyPurchased)

	users.AssertNumberOfCalls(t, "AddPurchasedBook", 2)
	users.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestBookService_PurchaseBookNotFound(t *testing.T) {
	ctx := context.Background()
	books := new(MockBookRepository)
	users := new(MockUserRepository)
	service := newBookService(books, users, nil)

	books.On("GetByID", ctx, "missing").Return(nil, repositories.ErrNotFound).Once()
	_, err := service.PurchaseBook(ctx, stranger, "missing")
	assert.ErrorIs(t, err, services.ErrBookNotFound)

	books.On("GetByID", ctx, "book-1").Return(&models.Book{ID: "book-1", Name: "Dune"}, nil).Once()
	users.On("GetByID", ctx, "ghost").Return(nil, repositories.ErrNotFound).Once()
	_, err = service.PurchaseBook(ctx, &services.Identity{UserID: "ghost"}, "book-1")
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	users.AssertNotCalled(t, "AddPurchasedBook", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookService_Queries(t *testing.T) {
	ctx := context.Background()
	books := new(MockBookRepository)
	service := newBookService(books, new(MockUserRepository), nil)

	books.On("GetAll", ctx).Return([]models.Book{{ID: "1"}, {ID: "2"}}, nil).Once()
	all, err := service.GetAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	books.On("GetAll", ctx).Return(nil, errors.New("connection reset")).Once()
	_, err = service.GetAllBooks(ctx)
	assert.ErrorIs(t, err, services.ErrFetchFailed)

	books.On("GetByID", ctx, "missing").Return(nil, repositories.ErrNotFound).Once()
	book, err := service.GetBookByID(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, book)

	books.On("GetByID", ctx, "broken").Return(nil, errors.New("connection reset")).Once()
	_, err = service.GetBookByID(ctx, "broken")
	assert.ErrorIs(t, err, services.ErrFetchFailed)

	books.AssertExpectations(t)
}
