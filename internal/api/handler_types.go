package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/services"
	"github.com/terraincognita07/moodtune/internal/storage"
	"gorm.io/gorm"
)

type Handler struct {
	db                *gorm.DB
	secretKey         []byte
	tokenTTL          time.Duration
	media             *storage.FileStore
	adminLoginLimiter *attemptLimiter
	now               func() time.Time

	authService          *services.AuthService
	dashboardService     *services.DashboardService
	capturedImageService *services.CapturedImageService
	moodService          *services.MoodService
	suggestionService    *services.SuggestionService
	userService          *services.UserService
	moodGenreService     *services.MoodEntryService[models.MoodGenre, *models.MoodGenre]
	activityService      *services.MoodEntryService[models.ActivitySuggestion, *models.ActivitySuggestion]
	relaxationService    *services.MoodEntryService[models.RelaxationActivity, *models.RelaxationActivity]
}

func NewHandler(database *gorm.DB, secretKey string, tokenTTL time.Duration, media *storage.FileStore) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if strings.TrimSpace(secretKey) == "" {
		return nil, errors.New("secret key is required")
	}
	if media == nil {
		return nil, errors.New("media store is required")
	}

	handler := &Handler{
		db:                database,
		secretKey:         []byte(secretKey),
		tokenTTL:          tokenTTL,
		media:             media,
		adminLoginLimiter: newAttemptLimiter(),
		now:               func() time.Time { return time.Now().UTC() },
	}
	return handler.withDependencies(database), nil
}
