package models

import "time"

type CapturedImage struct {
	ID         uint      `gorm:"primaryKey"`
	Image      string    `gorm:"not null;default:''"`
	Mood       string    `gorm:"not null;index"`
	CapturedAt time.Time `gorm:"not null;index"`
	UserID     *uint     `gorm:"index"`
	User       *User     `gorm:"constraint:OnDelete:SET NULL"`
}

// CapturedImageFilter restricts a listing to one owner and caps its length.
type CapturedImageFilter struct {
	UserID *uint
	Limit  int
}

// MoodCount is one row of the captured-mood tally.
type MoodCount struct {
	Name  string `gorm:"column:name" json:"name"`
	Count int64  `gorm:"column:count" json:"count"`
}
