package graph

import (
	"context"
	"errors"

	"bookmarket/internal/authctx"
	"bookmarket/internal/models"
	"bookmarket/internal/services"

	"github.com/graph-gophers/graphql-go"
)

type addBookInput struct {
	Name   string
	Author string
	Price  float64
}

type updateBookInput struct {
	ID     graphql.ID
	Name   *string
	Author *string
	Price  *float64
}

type purchaseBookInput struct {
	BookID graphql.ID
}

// Book mutations re-verify the raw credential from the request instead of
// trusting the user attached by the middleware.

// AddBook lists a new book owned by the caller.
func (r *Resolver) AddBook(ctx context.Context, args struct{ Input addBookInput }) (*BookResolver, error) {
	const op, prefix = "addBook", "Failed to add book"
	identity, err := r.auth.ResolveStrict(authctx.Token(ctx))
	if err != nil {
		return nil, r.authFailure(op, prefix, err)
	}

	book, err := r.books.AddBook(ctx, identity, services.AddBookInput{
		Name:   args.Input.Name,
		Author: args.Input.Author,
		Price:  args.Input.Price,
	})
	if err != nil {
		return nil, r.wrap(op, prefix, err)
	}
	r.record(op, nil)
	return &BookResolver{book: *book}, nil
}

// UpdateBook changes the provided fields of a book the caller owns.
func (r *Resolver) UpdateBook(ctx context.Context, args struct{ Input updateBookInput }) (*BookResolver, error) {
	const op, prefix = "updateBook", "Failed to update book"
	identity, err := r.auth.ResolveStrict(authctx.Token(ctx))
	if err != nil {
		return nil, r.authFailure(op, prefix, err)
	}

	book, err := r.books.UpdateBook(ctx, identity, string(args.Input.ID), models.BookChanges{
		Name:   args.Input.Name,
		Author: args.Input.Author,
		Price:  args.Input.Price,
	})
	if err != nil {
		return nil, r.wrap(op, prefix, err)
	}
	r.record(op, nil)
	return &BookResolver{book: *book}, nil
}

// DeleteBook removes a book the caller owns and returns it.
func (r *Resolver) DeleteBook(ctx context.Context, args struct{ ID graphql.ID }) (*BookResolver, error) {
	const op, prefix = "deleteBook", "Failed to delete book"
	identity, err := r.auth.ResolveStrict(authctx.Token(ctx))
	if err != nil {
		return nil, r.authFailure(op, prefix, err)
	}

	book, err := r.books.DeleteBook(ctx, identity, string(args.ID))
	if err != nil {
		return nil, r.wrap(op, prefix, err)
	}
	r.record(op, nil)
	return &BookResolver{book: *book}, nil
}

// PurchaseBook adds a book to the caller's purchase list.
func (r *Resolver) PurchaseBook(ctx context.Context, args struct{ Input purchaseBookInput }) (string, error) {
	const op, prefix = "purchaseBook", "Failed to purchase book"
	identity, err := r.auth.ResolveStrict(authctx.Token(ctx))
	if err != nil {
		return "", r.authFailure(op, prefix, err)
	}

	msg, err := r.books.PurchaseBook(ctx, identity, string(args.Input.BookID))
	if err != nil {
		return "", r.wrap(op, prefix, err)
	}
	r.record(op, nil)
	return msg, nil
}

// GetAllBooks lists the catalog for any signed-in user.
func (r *Resolver) GetAllBooks(ctx context.Context) ([]*BookResolver, error) {
	const op = "getAllBooks"
	if authctx.User(ctx) == nil {
		r.record(op, services.ErrAuthRequired)
		return nil, services.ErrAuthRequired
	}

	books, err := r.books.GetAllBooks(ctx)
	r.record(op, err)
	if err != nil {
		return nil, errors.New("Failed to fetch books")
	}
	return newBookResolvers(books), nil
}

// GetBookByID returns one book, or null when the id is unknown.
func (r *Resolver) GetBookByID(ctx context.Context, args struct{ ID graphql.ID }) (*BookResolver, error) {
	const op = "getBookById"
	if authctx.User(ctx) == nil {
		r.record(op, services.ErrAuthRequired)
		return nil, services.ErrAuthRequired
	}

	book, err := r.books.GetBookByID(ctx, string(args.ID))
	r.record(op, err)
	if err != nil {
		return nil, errors.New("Failed to fetch book")
	}
	if book == nil {
		return nil, nil
	}
	return &BookResolver{book: *book}, nil
}
