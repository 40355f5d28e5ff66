package models

import (
	"time"

	"gorm.io/gorm"
)

// Book represents a book listed on the marketplace.
type Book struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required"`
	Author    string    `json:"author" gorm:"type:varchar(255);not null" validate:"required"`
	Price     float64   `json:"price" gorm:"not null"`
	PostedBy  string    `json:"posted_by" gorm:"index;type:varchar(36);not null" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave runs the schema-level checks on every insert and update.
func (b *Book) BeforeSave(tx *gorm.DB) error {
	return Validate(b)
}

// BookChanges holds the optional fields of a partial book update.
type BookChanges struct {
	Name   *string
	Author *string
	Price  *float64
}

// Empty reports whether no field was provided.
func (c BookChanges) Empty() bool {
	return c.Name == nil && c.Author == nil && c.Price == nil
}

// Apply copies the provided fields onto b.
func (c BookChanges) Apply(b *Book) {
	if c.Name != nil {
		b.Name = *c.Name
	}
	if c.Author != nil {
		b.Author = *c.Author
	}
	if c.Price != nil {
		b.Price = *c.Price
	}
}
