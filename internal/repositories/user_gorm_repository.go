package repositories

import (
	"context"
	"errors"
	"fmt"

	"bookmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetAll retrieves every user together with their purchase lists.
func (r *GORMUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	db := r.db.WithContext(ctx)

	var users []models.User
	if err := db.Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}

	var purchases []models.Purchase
	if err := db.Order("id").Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}
	byUser := make(map[string][]string)
	for _, p := range purchases {
		byUser[p.UserID] = append(byUser[p.UserID], p.BookID)
	}
	for i := range users {
		users[i].PurchasedBooks = byUser[users[i].ID]
	}
	return users, nil
}

// AddPurchasedBook records a purchase. The unique (user_id, book_id) index makes
// the append conditional, so concurrent purchases of the same book cannot both land.
func (r *GORMUserRepository) AddPurchasedBook(ctx context.Context, userID, bookID string) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	if count == 0 {
		return fmt.Errorf("user with ID %s: %w", userID, ErrNotFound)
	}

	if err := db.Create(&models.Purchase{UserID: userID, BookID: bookID}).Error; err != nil {
		return fmt.Errorf("failed to record purchase of book %s: %w", bookID, translate(err))
	}
	return nil
}

func (r *GORMUserRepository) first(ctx context.Context, query string, arg string) (*models.User, error) {
	db := r.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user matching %q: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user matching %q: %w", arg, err)
	}

	if err := db.Model(&models.Purchase{}).
		Where("user_id = ?", user.ID).
		Order("id").
		Pluck("book_id", &user.PurchasedBooks).Error; err != nil {
		return nil, fmt.Errorf("failed to get purchases for user %s: %w", user.ID, err)
	}
	return &user, nil
}

// translate maps driver-level errors onto the repository sentinels. It relies on
// gorm.Config.TranslateError being enabled.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return err
	}
}
