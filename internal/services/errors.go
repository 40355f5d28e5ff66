package services

import (
	"errors"
	"fmt"
)

// Token-level failures reported by CredentialService.Verify.
var (
	ErrTokenMalformed        = errors.New("malformed token")
	ErrTokenInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired          = errors.New("token expired")
)

// Resolver-level failures. Messages are shown to API callers as-is.
var (
	ErrAuthRequired       = errors.New("Authentication required")
	ErrUnauthorized       = errors.New("Unauthorized access")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrDuplicateEmail     = errors.New("user already exists with this email")
	ErrDuplicateName      = errors.New("a book with this name already exists")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrAlreadyPurchased   = errors.New("book already in purchase list")
	ErrFetchFailed        = errors.New("fetch failed")
	ErrPersistence        = errors.New("persistence failure")
)

// ForbiddenError is returned when the ownership gate refuses an action on a
// book. It matches ErrForbidden.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("You are not authorized to %s this book", e.Action)
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// IsHardTokenError reports whether err means the credential itself is
// structurally unusable, as opposed to merely stale.
func IsHardTokenError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) || errors.Is(err, ErrTokenInvalidSignature)
}
