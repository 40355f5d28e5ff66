package services_test

import (
	"context"
	"testing"

	"bookmarket/internal/models"
	"bookmarket/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListUsersWithPostedBooks(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	books := new(MockBookRepository)
	service := services.NewUserService(users, books)

	users.On("GetAll", ctx).Return([]models.User{
		{ID: "u1", Username: "alice", PurchasedBooks: []string{"b9"}},
		{ID: "u2", Username: "bob"},
	}, nil).Once()
	books.On("GetByPoster", ctx, "u1").Return([]models.Book{{ID: "b1", PostedBy: "u1"}}, nil).Once()
	books.On("GetByPoster", ctx, "u2").Return([]models.Book{}, nil).Once()

	list, err := service.ListUsersWithPostedBooks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].User.Username)
	assert.Equal(t, []models.Book{{ID: "b1", PostedBy: "u1"}}, list[0].Books)
	assert.Empty(t, list[1].Books)

	users.AssertExpectations(t)
	books.AssertExpectations(t)
}

func TestUserService_PurchasedBooks(t *testing.T) {
	ctx := context.Background()
	books := new(MockBookRepository)
	service := services.NewUserService(new(MockUserRepository), books)

	user := &models.User{ID: "u1", PurchasedBooks: []string{"b1", "deleted"}}
	books.On("GetByIDs", ctx, []string{"b1", "deleted"}).Return([]models.Book{{ID: "b1"}}, nil).Once()

	got, err := service.PurchasedBooks(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []models.Book{{ID: "b1"}}, got)
	books.AssertExpectations(t)
}
