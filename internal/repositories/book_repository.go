package repositories

import (
	"context"

	"bookmarket/internal/models"
)

// BookRepository defines the interface for book data access (the catalog store).
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id string) (*models.Book, error)
	GetAll(ctx context.Context) ([]models.Book, error)
	// GetByIDs returns the books matching ids in the order given; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]models.Book, error)
	GetByPoster(ctx context.Context, userID string) ([]models.Book, error)
	Update(ctx context.Context, id string, changes models.BookChanges) (*models.Book, error)
	// Delete removes the book and returns it as it was before deletion.
	Delete(ctx context.Context, id string) (*models.Book, error)
}

// orderByIDs arranges books to follow ids, dropping ids with no match.
func orderByIDs(books []models.Book, ids []string) []models.Book {
	byID := make(map[string]models.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	ordered := make([]models.Book, 0, len(books))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
			delete(byID, id)
		}
	}
	return ordered
}
