package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/moodtune/internal/models"
)

const (
	StatsRangeDay   = "day"
	StatsRangeWeek  = "week"
	StatsRangeMonth = "month"
	StatsRangeYear  = "year"

	activityActionImageCaptured = "Image captured"
	anonymousUsername           = "Anonymous"
)

type DashboardReader interface {
	CountNonStaffUsers() (int64, error)
	CountNonStaffUsersBefore(cutoff time.Time) (int64, error)
	CountCaptures() (int64, error)
	CountCapturesBefore(cutoff time.Time) (int64, error)
	CountMoods() (int64, error)
	CountActivitySuggestions() (int64, error)
	CountRelaxationActivities() (int64, error)
	TopMoods(limit int) ([]models.MoodCount, error)
	RecentCaptures(limit int) ([]models.CapturedImage, error)
}

type DashboardStats struct {
	TotalUsers                int64
	TotalMoods                int64
	TotalImages               int64
	TotalActivitySuggestions  int64
	TotalRelaxationActivities int64
	UserChangePercent         float64
	ImageChangePercent        float64
}

// UserActivity is one capture event in the recent activity feed.
type UserActivity struct {
	Username  string
	Action    string
	Mood      string
	Timestamp time.Time
}

type DashboardService struct {
	reader DashboardReader
	now    func() time.Time
}

func NewDashboardService(reader DashboardReader) *DashboardService {
	return &DashboardService{
		reader: reader,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// StatsWindow maps a range name to its lookback. Unknown names fall back to a week.
func StatsWindow(rangeName string) time.Duration {
	switch rangeName {
	case StatsRangeDay:
		return 24 * time.Hour
	case StatsRangeMonth:
		return 30 * 24 * time.Hour
	case StatsRangeYear:
		return 365 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// ChangePercent is the growth of current over previous, or 0 when previous is 0.
func ChangePercent(current int64, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

func (service *DashboardService) Stats(rangeName string) (DashboardStats, error) {
	start := service.now().Add(-StatsWindow(rangeName))

	stats := DashboardStats{}
	counters := []struct {
		label  string
		target *int64
		count  func() (int64, error)
	}{
		{"users", &stats.TotalUsers, service.reader.CountNonStaffUsers},
		{"moods", &stats.TotalMoods, service.reader.CountMoods},
		{"images", &stats.TotalImages, service.reader.CountCaptures},
		{"activity suggestions", &stats.TotalActivitySuggestions, service.reader.CountActivitySuggestions},
		{"relaxation activities", &stats.TotalRelaxationActivities, service.reader.CountRelaxationActivities},
	}
	for _, counter := range counters {
		value, err := counter.count()
		if err != nil {
			return DashboardStats{}, fmt.Errorf("count %s: %w", counter.label, err)
		}
		*counter.target = value
	}

	previousUsers, err := service.reader.CountNonStaffUsersBefore(start)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("count users before window: %w", err)
	}
	previousImages, err := service.reader.CountCapturesBefore(start)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("count images before window: %w", err)
	}

	stats.UserChangePercent = ChangePercent(stats.TotalUsers, previousUsers)
	stats.ImageChangePercent = ChangePercent(stats.TotalImages, previousImages)
	return stats, nil
}

func (service *DashboardService) TopMoods(limit int) ([]models.MoodCount, error) {
	moods, err := service.reader.TopMoods(limit)
	if err != nil {
		return nil, fmt.Errorf("tally moods: %w", err)
	}
	return moods, nil
}

func (service *DashboardService) UserActivity(limit int) ([]UserActivity, error) {
	images, err := service.reader.RecentCaptures(limit)
	if err != nil {
		return nil, fmt.Errorf("load recent captures: %w", err)
	}

	activity := make([]UserActivity, 0, len(images))
	for _, image := range images {
		username := image.User.UsernameValue()
		if username == "" {
			username = anonymousUsername
		}
		activity = append(activity, UserActivity{
			Username:  username,
			Action:    activityActionImageCaptured,
			Mood:      image.Mood,
			Timestamp: image.CapturedAt,
		})
	}
	return activity, nil
}
