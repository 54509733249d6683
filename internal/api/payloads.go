package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/services"
	"github.com/terraincognita07/moodtune/internal/storage"
)

type userPayload struct {
	ID       uint    `json:"id"`
	Email    string  `json:"email"`
	Username *string `json:"username"`
}

type adminUserPayload struct {
	userPayload
	IsSuperuser bool `json:"is_superuser"`
}

type managedUserPayload struct {
	userPayload
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

type authPayload struct {
	User  userPayload `json:"user"`
	Token string      `json:"token"`
}

type adminAuthPayload struct {
	Message string           `json:"message"`
	User    adminUserPayload `json:"user"`
	Token   string           `json:"token"`
}

type moodPayload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type suggestionPayload struct {
	Mood       string `json:"mood"`
	Music      string `json:"music"`
	Activity   string `json:"activity"`
	Relaxation string `json:"relaxation"`
}

type capturedImagePayload struct {
	ID         uint      `json:"id"`
	Image      *string   `json:"image"`
	Mood       string    `json:"mood"`
	CapturedAt time.Time `json:"captured_at"`
	User       *uint     `json:"user"`
}

type statsPayload struct {
	TotalUsers                int64   `json:"total_users"`
	TotalMoods                int64   `json:"total_moods"`
	TotalImages               int64   `json:"total_images"`
	TotalActivitySuggestions  int64   `json:"total_activity_suggestions"`
	TotalRelaxationActivities int64   `json:"total_relaxation_activities"`
	UserChangePercent         float64 `json:"user_change_percent"`
	ImageChangePercent        float64 `json:"image_change_percent"`
}

type activityUserPayload struct {
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

type activityPayload struct {
	User      activityUserPayload `json:"user"`
	Action    string              `json:"action"`
	Mood      string              `json:"mood"`
	Timestamp time.Time           `json:"timestamp"`
}

func buildUserPayload(user models.User) userPayload {
	return userPayload{ID: user.ID, Email: user.Email, Username: user.Username}
}

func buildManagedUserPayload(user models.User) managedUserPayload {
	return managedUserPayload{
		userPayload: buildUserPayload(user),
		IsActive:    user.IsActive,
		DateJoined:  user.DateJoined,
	}
}

func buildMoodPayload(mood models.Mood) moodPayload {
	return moodPayload{ID: mood.ID, Name: mood.Name}
}

func buildMoodEntryPayload(entry models.MoodEntry, itemsField string) fiber.Map {
	return fiber.Map{
		"id":       entry.EntryID(),
		"mood":     buildMoodPayload(entry.OwnerMood()),
		itemsField: entry.Items(),
	}
}

func buildSuggestionPayload(suggestion models.Suggestion) suggestionPayload {
	return suggestionPayload{
		Mood:       suggestion.Mood,
		Music:      suggestion.Music,
		Activity:   suggestion.Activity,
		Relaxation: suggestion.Relaxation,
	}
}

func buildCapturedImagePayload(media *storage.FileStore, image models.CapturedImage) capturedImagePayload {
	payload := capturedImagePayload{
		ID:         image.ID,
		Mood:       image.Mood,
		CapturedAt: image.CapturedAt,
		User:       image.UserID,
	}
	if url := media.URL(image.Image); url != "" {
		payload.Image = &url
	}
	return payload
}

func buildCapturedImageList(media *storage.FileStore, images []models.CapturedImage) []capturedImagePayload {
	payload := make([]capturedImagePayload, 0, len(images))
	for _, image := range images {
		payload = append(payload, buildCapturedImagePayload(media, image))
	}
	return payload
}

func buildStatsPayload(stats services.DashboardStats) statsPayload {
	return statsPayload{
		TotalUsers:                stats.TotalUsers,
		TotalMoods:                stats.TotalMoods,
		TotalImages:               stats.TotalImages,
		TotalActivitySuggestions:  stats.TotalActivitySuggestions,
		TotalRelaxationActivities: stats.TotalRelaxationActivities,
		UserChangePercent:         stats.UserChangePercent,
		ImageChangePercent:        stats.ImageChangePercent,
	}
}

func buildActivityPayload(activity []services.UserActivity) []activityPayload {
	payload := make([]activityPayload, 0, len(activity))
	for _, item := range activity {
		payload = append(payload, activityPayload{
			User:      activityUserPayload{Username: item.Username},
			Action:    item.Action,
			Mood:      item.Mood,
			Timestamp: item.Timestamp,
		})
	}
	return payload
}
