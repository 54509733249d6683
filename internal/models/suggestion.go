package models

// Suggestion is the flat, mood-name keyed variant of the genre/activity/relaxation lookups.
type Suggestion struct {
	ID         uint   `gorm:"primaryKey"`
	Mood       string `gorm:"uniqueIndex;not null"`
	Music      string `gorm:"not null"`
	Activity   string `gorm:"not null"`
	Relaxation string `gorm:"not null"`
}
