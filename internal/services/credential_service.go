package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTokenTTL is the validity window of an issued token.
const DefaultTokenTTL = time.Hour

// Identity is what a verified token proves about its bearer.
type Identity struct {
	UserID string
	Email  string
}

// Claims is the signed payload of an identity token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// CredentialService issues and verifies signed, time-limited identity tokens.
type CredentialService struct {
	secret []byte
	ttl    time.Duration
}

// NewCredentialService creates a CredentialService signing with secret.
// A non-positive ttl falls back to DefaultTokenTTL.
func NewCredentialService(secret string, ttl time.Duration) *CredentialService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &CredentialService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for the given identity, valid for the configured TTL.
func (s *CredentialService) Issue(userID, email string) (string, error) {
	issuedAt := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(s.ttl).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Verify parses tokenString and returns the identity it carries. Failures are
// ErrTokenMalformed, ErrTokenInvalidSignature or ErrTokenExpired.
func (s *CredentialService) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalidSignature
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing userId claim", ErrTokenMalformed)
	}

	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// classifyTokenError maps jwt-go validation flags onto the token error kinds.
// Structure is judged first, then signature, then expiry, so a forged token
// that also happens to be expired is still reported as a bad signature.
func classifyTokenError(err error) error {
	var verr *jwt.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	switch {
	case verr.Errors&jwt.ValidationErrorMalformed != 0:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case verr.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0:
		return fmt.Errorf("%w: %v", ErrTokenInvalidSignature, err)
	case verr.Errors&jwt.ValidationErrorExpired != 0:
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenInvalidSignature, err)
	}
}
