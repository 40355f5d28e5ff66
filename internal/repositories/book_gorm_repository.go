package repositories

import (
	"context"
	"errors"
	"fmt"

	"bookmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

// Create creates a new book in the database.
func (r *GORMBookRepository) Create(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a single book by its ID from the database.
func (r *GORMBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	return &book, nil
}

// GetAll retrieves all books from the database.
func (r *GORMBookRepository) GetAll(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Order("created_at").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to get all books: %w", err)
	}
	return books, nil
}

// GetByIDs retrieves the books with the given IDs, in the order of ids.
func (r *GORMBookRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	var books []models.Book
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to get books by IDs: %w", err)
	}
	return orderByIDs(books, ids), nil
}

// GetByPoster retrieves all books posted by the given user.
func (r *GORMBookRepository) GetByPoster(ctx context.Context, userID string) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Where("posted_by = ?", userID).Order("created_at").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to get books posted by %s: %w", userID, err)
	}
	return books, nil
}

// Update applies the provided fields to an existing book and returns the result.
func (r *GORMBookRepository) Update(ctx context.Context, id string, changes models.BookChanges) (*models.Book, error) {
	book, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return book, nil
	}

	changes.Apply(book)
	// Updates never inserts, so a book deleted since the read stays deleted.
	// The model is the whole record, so the BeforeSave hook validates it.
	res := r.db.WithContext(ctx).Model(book).Select("name", "author", "price").Updates(book)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update book: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return book, nil
}

// Delete deletes a book by its ID from the database.
func (r *GORMBookRepository) Delete(ctx context.Context, id string) (*models.Book, error) {
	book, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return book, nil
}
