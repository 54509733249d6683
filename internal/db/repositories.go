package db

import (
	"github.com/terraincognita07/moodtune/internal/models"
	"gorm.io/gorm"
)

type Repositories struct {
	Users                *UserRepository
	Tokens               *TokenRepository
	Moods                *MoodRepository
	MoodGenres           *MoodEntryRepository[models.MoodGenre, *models.MoodGenre]
	ActivitySuggestions  *MoodEntryRepository[models.ActivitySuggestion, *models.ActivitySuggestion]
	RelaxationActivities *MoodEntryRepository[models.RelaxationActivity, *models.RelaxationActivity]
	Suggestions          *SuggestionRepository
	CapturedImages       *CapturedImageRepository
	Dashboard            *DashboardRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:                NewUserRepository(database),
		Tokens:               NewTokenRepository(database),
		Moods:                NewMoodRepository(database),
		MoodGenres:           NewMoodEntryRepository[models.MoodGenre, *models.MoodGenre](database),
		ActivitySuggestions:  NewMoodEntryRepository[models.ActivitySuggestion, *models.ActivitySuggestion](database),
		RelaxationActivities: NewMoodEntryRepository[models.RelaxationActivity, *models.RelaxationActivity](database),
		Suggestions:          NewSuggestionRepository(database),
		CapturedImages:       NewCapturedImageRepository(database),
		Dashboard:            NewDashboardRepository(database),
	}
}
