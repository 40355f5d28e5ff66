// Package graph binds the GraphQL schema to the user and book services.
package graph

import (
	_ "embed"
	"errors"
	"fmt"

	"bookmarket/internal/metrics"
	"bookmarket/internal/services"

	"github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"
)

//go:embed schema.graphql
var schemaSDL string

// Resolver is the root resolver for both Query and Mutation fields.
type Resolver struct {
	auth  *services.AuthService
	users *services.UserService
	books *services.BookService
	log   logrus.FieldLogger
}

// NewResolver creates the root resolver.
func NewResolver(auth *services.AuthService, users *services.UserService, books *services.BookService, log logrus.FieldLogger) *Resolver {
	return &Resolver{
		auth:  auth,
		users: users,
		books: books,
		log:   log,
	}
}

// NewSchema parses the embedded SDL and binds it to r.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	schema, err := graphql.ParseSchema(schemaSDL, r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}
	return schema, nil
}

// record counts one resolution of op.
func (r *Resolver) record(op string, err error) {
	metrics.RecordResolver(op, err)
	if err != nil {
		r.log.WithError(err).WithField("operation", op).Info("resolver failed")
	}
}

// wrap records a failed op and rewrites err into the caller-facing
// "<prefix>: <cause>" form.
func (r *Resolver) wrap(op, prefix string, err error) error {
	r.record(op, err)
	return fmt.Errorf("%s: %w", prefix, err)
}

// authFailure reports a failed credential check. A missing credential is
// surfaced as is; anything else carries the operation prefix.
func (r *Resolver) authFailure(op, prefix string, err error) error {
	if errors.Is(err, services.ErrAuthRequired) {
		r.record(op, err)
		return err
	}
	return r.wrap(op, prefix, err)
}
