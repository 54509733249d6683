package models

import (
	"strings"
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Username     *string   `gorm:"uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	IsStaff      bool      `gorm:"not null"`
	IsSuperuser  bool      `gorm:"not null"`
	IsActive     bool      `gorm:"not null"`
	DateJoined   time.Time `gorm:"not null"`
	LastLogin    *time.Time
}

// UsernameValue returns the username or an empty string when none is set.
func (user *User) UsernameValue() string {
	if user == nil || user.Username == nil {
		return ""
	}
	return *user.Username
}

// HasStaffAccess reports whether the account may manage reference data.
func (user *User) HasStaffAccess() bool {
	return user != nil && (user.IsStaff || user.IsSuperuser)
}

// OptionalUsername converts a raw username into the nullable column value.
func OptionalUsername(raw string) *string {
	username := strings.TrimSpace(raw)
	if username == "" {
		return nil
	}
	return &username
}
