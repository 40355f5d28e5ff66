package models

import "time"

// Purchase links a user to a book they bought. The relational store keeps
// User.PurchasedBooks here; ID order is purchase order.
type Purchase struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_purchase_user_book"`
	BookID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_purchase_user_book"`
	CreatedAt time.Time
}
