package graph

import (
	"context"

	"bookmarket/internal/models"
	"bookmarket/internal/services"

	"github.com/graph-gophers/graphql-go"
)

// BookResolver resolves the Book type.
type BookResolver struct {
	book models.Book
}

func newBookResolvers(books []models.Book) []*BookResolver {
	out := make([]*BookResolver, 0, len(books))
	for _, b := range books {
		out = append(out, &BookResolver{book: b})
	}
	return out
}

func (b *BookResolver) ID() graphql.ID { return graphql.ID(b.book.ID) }
func (b *BookResolver) Name() string { return b.book.Name }
func (b *BookResolver) Author() string { return b.book.Author }
func (b *BookResolver) Price() float64 { return b.book.Price }

func (b *BookResolver) PostedBy() *graphql.ID {
	if b.book.PostedBy == "" {
		return nil
	}
	id := graphql.ID(b.book.PostedBy)
	return &id
}

// UserResolver resolves the User type. When preloaded is set the
// purchasedBooks field returns books as is; otherwise the list is loaded from
// the user's purchase references on demand.
type UserResolver struct {
	user      models.User
	books     []models.Book
	preloaded bool
	r         *Resolver
}

func (u *UserResolver) ID() graphql.ID { return graphql.ID(u.user.ID) }
func (u *UserResolver) Username() string { return u.user.Username }
func (u *UserResolver) Email() string { return u.user.Email }

func (u *UserResolver) PurchasedBooks(ctx context.Context) ([]*BookResolver, error) {
	if u.preloaded {
		return newBookResolvers(u.books), nil
	}

	books, err := u.r.users.PurchasedBooks(ctx, &u.user)
	if err != nil {
		return nil, u.r.wrap("purchasedBooks", "Failed to fetch purchased books", err)
	}
	return newBookResolvers(books), nil
}

// AuthDataResolver resolves the AuthData type.
type AuthDataResolver struct {
	payload *services.AuthPayload
	r       *Resolver
}

func (a *AuthDataResolver) User() *UserResolver {
	return &UserResolver{user: *a.payload.User, r: a.r}
}

func (a *AuthDataResolver) Token() string { return a.payload.Token }
