package models_test

import (
	"testing"

	"bookmarket/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidate_User(t *testing.T) {
	valid := &models.User{Username: "alice", Email: "alice.smith@example.com", Password: "hashed-password"}
	assert.NoError(t, models.Validate(valid))

	badEmail := *valid
	badEmail.Email = "alice@localhost"
	err := models.Validate(&badEmail)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Email")

	shortPassword := *valid
	shortPassword.Password = "abc"
	err = models.Validate(&shortPassword)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "min")

	noUsername := *valid
	noUsername.Username = ""
	assert.Error(t, models.Validate(&noUsername))
}

func TestValidate_Book(t *testing.T) {
	book := &models.Book{Name: "Dune", Author: "Herbert", Price: 0, PostedBy: "user-1"}
	assert.NoError(t, models.Validate(book), "zero and negative prices are not rejected")

	book.Price = -3
	assert.NoError(t, models.Validate(book))

	book.PostedBy = ""
	assert.Error(t, models.Validate(book))
}

func TestUser_HasPurchased(t *testing.T) {
	u := &models.User{PurchasedBooks: []string{"b1", "b2"}}
	assert.True(t, u.HasPurchased("b2"))
	assert.False(t, u.HasPurchased("b3"))
}

func TestBookChanges_Apply(t *testing.T) {
	name := "Dune Messiah"
	price := 12.5
	book := models.Book{Name: "Dune", Author: "Herbert", Price: 9.99}

	changes := models.BookChanges{Name: &name, Price: &price}
	assert.False(t, changes.Empty())
	changes.Apply(&book)

	assert.Equal(t, "Dune Messiah", book.Name)
	assert.Equal(t, "Herbert", book.Author)
	assert.Equal(t, 12.5, book.Price)
	assert.True(t, models.BookChanges{}.Empty())
}
