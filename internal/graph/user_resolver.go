package graph

import (
	"context"

	"bookmarket/internal/authctx"
	"bookmarket/internal/services"
)

type registerInput struct {
	Username string
	Email    string
	Password string
}

type loginInput struct {
	Email    string
	Password string
}

// Register creates an account and returns it with a fresh token.
func (r *Resolver) Register(ctx context.Context, args struct{ Input registerInput }) (*AuthDataResolver, error) {
	payload, err := r.auth.Register(ctx, services.RegisterInput{
		Username: args.Input.Username,
		Email:    args.Input.Email,
		Password: args.Input.Password,
	})
	if err != nil {
		return nil, r.wrap("register", "Failed to register user", err)
	}
	r.record("register", nil)
	return &AuthDataResolver{payload: payload, r: r}, nil
}

// Login exchanges an email and password for a token.
func (r *Resolver) Login(ctx context.Context, args struct{ Input loginInput }) (*AuthDataResolver, error) {
	payload, err := r.auth.Login(ctx, args.Input.Email, args.Input.Password)
	if err != nil {
		return nil, r.wrap("login", "Failed to login", err)
	}
	r.record("login", nil)
	return &AuthDataResolver{payload: payload, r: r}, nil
}

// GetAllUsers lists every account for the admin. Each user's purchasedBooks
// holds the books that user posted.
func (r *Resolver) GetAllUsers(ctx context.Context) ([]*UserResolver, error) {
	if !r.auth.IsAdmin(authctx.User(ctx)) {
		r.record("getAllUsers", services.ErrUnauthorized)
		return nil, services.ErrUnauthorized
	}

	list, err := r.users.ListUsersWithPostedBooks(ctx)
	if err != nil {
		return nil, r.wrap("getAllUsers", "Failed to fetch users", err)
	}
	r.record("getAllUsers", nil)

	out := make([]*UserResolver, 0, len(list))
	for _, entry := range list {
		out = append(out, &UserResolver{user: entry.User, books: entry.Books, preloaded: true, r: r})
	}
	return out, nil
}
