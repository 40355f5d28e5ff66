package services

import (
	"context"
	"errors"
	"fmt"

	"bookmarket/internal/models"
	"bookmarket/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password, before hashing.
const MinPasswordLength = 6

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"min=6"`
}

// AuthPayload is returned by a successful registration or login.
type AuthPayload struct {
	User  *models.User
	Token string
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo      repositories.UserRepository
	credentials   *CredentialService
	events        EventPublisher
	validate      *validator.Validate
	adminUsername string
	log           logrus.FieldLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, credentials *CredentialService, events EventPublisher, adminUsername string, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		credentials:   credentials,
		events:        events,
		validate:      validator.New(),
		adminUsername: adminUsername,
		log:           log,
	}
}

// Register creates a new user and issues a token for it. Username uniqueness
// is left to the store; a collision surfaces as ErrPersistence.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthPayload, error) {
	if err := s.validateRegistration(in); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrDuplicateEmail
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	token, err := s.credentials.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	publishEvent(s.events, s.log, EventUserRegistered, map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
	})
	return &AuthPayload{User: user, Token: token}, nil
}

// Login checks the password for email and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.credentials.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{User: user, Token: token}, nil
}

// ResolveSoft is the context-population policy. It never fails for a missing,
// expired or orphaned credential: those yield (nil, nil). Only a malformed
// token or a bad signature is returned as an error, and the caller must then
// reject the request.
func (s *AuthService) ResolveSoft(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	identity, err := s.credentials.Verify(token)
	if err != nil {
		if IsHardTokenError(err) {
			return nil, err
		}
		s.log.WithError(err).Warn("ignoring unusable token")
		return nil, nil
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", identity.UserID).Warn("token user lookup failed")
		return nil, nil
	}
	return user, nil
}

// ResolveStrict is the mutation-gating policy: the credential must be present
// and verify, otherwise the operation is refused.
func (s *AuthService) ResolveStrict(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	return s.credentials.Verify(token)
}

// IsAdmin reports whether user may list all accounts.
// TODO: replace the username sentinel with a role column on users.
func (s *AuthService) IsAdmin(user *models.User) bool {
	return user != nil && user.Username == s.adminUsername
}

func (s *AuthService) validateRegistration(in RegisterInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	switch verrs[0].Field() {
	case "Email":
		return ErrInvalidEmail
	case "Password":
		return ErrPasswordTooShort
	default:
		return fmt.Errorf("field '%s' failed on the '%s' tag", verrs[0].Field(), verrs[0].Tag())
	}
}
