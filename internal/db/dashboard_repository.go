package db

import (
	"time"

	"github.com/terraincognita07/moodtune/internal/models"
	"gorm.io/gorm"
)

// DashboardRepository holds the read-only aggregate queries behind the admin dashboard.
type DashboardRepository struct {
	database *gorm.DB
}

func NewDashboardRepository(database *gorm.DB) *DashboardRepository {
	return &DashboardRepository{database: database}
}

func (repo *DashboardRepository) CountNonStaffUsers() (int64, error) {
	return NewUserRepository(repo.database).CountNonStaff()
}

func (repo *DashboardRepository) CountNonStaffUsersBefore(cutoff time.Time) (int64, error) {
	return NewUserRepository(repo.database).CountNonStaffJoinedBefore(cutoff)
}

func (repo *DashboardRepository) CountCaptures() (int64, error) {
	return NewCapturedImageRepository(repo.database).Count()
}

func (repo *DashboardRepository) CountCapturesBefore(cutoff time.Time) (int64, error) {
	return NewCapturedImageRepository(repo.database).CountCapturedBefore(cutoff)
}

func (repo *DashboardRepository) CountMoods() (int64, error) {
	return NewMoodRepository(repo.database).Count()
}

func (repo *DashboardRepository) CountActivitySuggestions() (int64, error) {
	return NewMoodEntryRepository[models.ActivitySuggestion, *models.ActivitySuggestion](repo.database).Count()
}

func (repo *DashboardRepository) CountRelaxationActivities() (int64, error) {
	return NewMoodEntryRepository[models.RelaxationActivity, *models.RelaxationActivity](repo.database).Count()
}

// TopMoods tallies captures by mood label, ties broken alphabetically.
func (repo *DashboardRepository) TopMoods(limit int) ([]models.MoodCount, error) {
	rows := make([]models.MoodCount, 0)
	if err := repo.database.Model(&models.CapturedImage{}).
		Select("mood AS name, COUNT(*) AS count").
		Group("mood").
		Order("count DESC, mood ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo *DashboardRepository) RecentCaptures(limit int) ([]models.CapturedImage, error) {
	images := make([]models.CapturedImage, 0)
	if err := repo.database.
		Preload("User").
		Order("captured_at DESC, id DESC").
		Limit(limit).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}
