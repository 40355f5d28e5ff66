package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a marketplace account.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username       string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,mailpattern"`
	Password       string    `json:"-" gorm:"type:varchar(255);not null" validate:"required,min=6"` // bcrypt hash
	PurchasedBooks []string  `json:"purchased_books" gorm:"-"`                                      // book IDs in purchase order
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeSave runs the schema-level checks on every insert and update.
func (u *User) BeforeSave(tx *gorm.DB) error {
	return Validate(u)
}

// HasPurchased reports whether bookID is already in the purchase list.
func (u *User) HasPurchased(bookID string) bool {
	for _, id := range u.PurchasedBooks {
		if id == bookID {
			return true
		}
	}
	return false
}
