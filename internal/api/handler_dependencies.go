package api

import (
	"github.com/terraincognita07/moodtune/internal/db"
	"github.com/terraincognita07/moodtune/internal/models"
	"github.com/terraincognita07/moodtune/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	repositories := db.NewRepositories(database)
	handler.authService = services.NewAuthService(repositories.Users, repositories.Tokens, handler.secretKey, handler.tokenTTL)
	handler.dashboardService = services.NewDashboardService(repositories.Dashboard)
	handler.capturedImageService = services.NewCapturedImageService(repositories.CapturedImages, handler.media)
	handler.moodService = services.NewMoodService(repositories.Moods)
	handler.suggestionService = services.NewSuggestionService(repositories.Suggestions)
	handler.userService = services.NewUserService(repositories.Users)
	handler.moodGenreService = services.NewMoodEntryService[models.MoodGenre, *models.MoodGenre](repositories.MoodGenres, repositories.Moods, "genres")
	handler.activityService = services.NewMoodEntryService[models.ActivitySuggestion, *models.ActivitySuggestion](repositories.ActivitySuggestions, repositories.Moods, "suggestion")
	handler.relaxationService = services.NewMoodEntryService[models.RelaxationActivity, *models.RelaxationActivity](repositories.RelaxationActivities, repositories.Moods, "activity")
	return handler
}
