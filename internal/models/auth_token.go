package models

import "time"

// AuthToken is the single session credential held by a user.
type AuthToken struct {
	Token     string    `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
