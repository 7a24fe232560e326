package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nuzul/api-go/config"
	"github.com/nuzul/api-go/models"
	"github.com/nuzul/api-go/types"
)

var ErrMissingDeedIdentity = errors.New("either goodDeedId or customDeedName must be provided")

// DeedService records deed completions and serves completion history.
type DeedService struct {
	DB          *gorm.DB
	Settings    config.Settings
	Leaderboard *LeaderboardService
	Log         *zap.Logger
}

func NewDeedService(db *gorm.DB, settings config.Settings, leaderboard *LeaderboardService, log *zap.Logger) *DeedService {
	return &DeedService{DB: db, Settings: settings, Leaderboard: leaderboard, Log: log}
}

type RecordCompletionInput struct {
	UserID         uint
	GoodDeedID     *uint
	CustomDeedName *string
	Date           time.Time // zero means now
	Notes          string
	RamadanDay     int // 0 means unknown, derived from settings when possible
}

// RecordCompletion scores and persists one deed completion, then hands the
// user off to the leaderboard cache refresher. The refresh is best-effort:
// once the completion row is written nothing rolls it back.
func (s *DeedService) RecordCompletion(in RecordCompletionInput) (*models.CompletedDeed, error) {
	if in.GoodDeedID == nil && in.CustomDeedName == nil {
		return nil, ErrMissingDeedIdentity
	}

	completedAt := in.Date
	if completedAt.IsZero() {
		completedAt = time.Now()
	}
	deedDate := types.StartOfDay(completedAt)

	basePoints := types.DEFAULT_CUSTOM_DEED_POINTS
	category := models.CategoryCustom
	if in.GoodDeedID != nil {
		var deed models.PredefinedGoodDeed
		if err := s.DB.First(&deed, *in.GoodDeedID).Error; err == nil {
			basePoints = deed.BasePoints
			category = deed.Category
		} else if s.Log != nil {
			// Missing catalog entries degrade to the custom-deed default.
			s.Log.Warn("good deed not found in catalog, using default points",
				zap.Uint("good_deed_id", *in.GoodDeedID))
		}
	}

	ramadanDay := in.RamadanDay
	if ramadanDay == 0 && !s.Settings.RamadanStart.IsZero() {
		ramadanDay = types.RamadanDayFor(deedDate, s.Settings.RamadanStart)
	}

	uniquePrayerDays, err := s.countPrayerStreakDays(in.UserID, deedDate)
	if err != nil {
		return nil, err
	}

	breakdown := types.CalculatePoints(basePoints, deedDate, ramadanDay, uniquePrayerDays)

	completed := models.CompletedDeed{
		UserID:         in.UserID,
		GoodDeedID:     in.GoodDeedID,
		CustomDeedName: in.CustomDeedName,
		Category:       category,
		DeedDate:       deedDate,
		CompletedAt:    completedAt,
		BasePoints:     breakdown.BasePoints,
		BonusPoints:    breakdown.BonusPoints,
		Multiplier:     breakdown.Multiplier,
		TotalPoints:    breakdown.TotalPoints,
		IsStreakBonus:  breakdown.IsStreakBonus,
		IsPowerDay:     breakdown.IsPowerDay,
		Notes:          in.Notes,
	}

	if err := s.DB.Create(&completed).Error; err != nil {
		return nil, err
	}

	// Running total on the user row, same transaction-free best effort as
	// the cache below.
	if err := s.DB.Model(&models.User{}).Where("id = ?", in.UserID).
		Update("total_points", gorm.Expr("total_points + ?", completed.TotalPoints)).Error; err != nil && s.Log != nil {
		s.Log.Error("failed to bump user total points", zap.Uint("user_id", in.UserID), zap.Error(err))
	}

	if s.Leaderboard != nil {
		s.Leaderboard.EnqueueRefresh(in.UserID, deedDate)
	}

	return &completed, nil
}

// countPrayerStreakDays counts the distinct calendar days carrying at least
// one prayer-category completion in the trailing lookback window ending on
// day, inclusive. Only rows already persisted count; the completion being
// recorded does not see itself.
func (s *DeedService) countPrayerStreakDays(userID uint, day time.Time) (int, error) {
	windowStart := day.AddDate(0, 0, -(types.STREAK_LOOKBACK_DAYS - 1))

	var uniqueDays int64
	err := s.DB.Model(&models.CompletedDeed{}).
		Where("user_id = ? AND category = ? AND deed_date >= ? AND deed_date <= ?",
			userID, models.CategoryPrayer, windowStart, day).
		Distinct("deed_date").
		Count(&uniqueDays).Error
	if err != nil {
		return 0, err
	}
	return int(uniqueDays), nil
}

type DeedHistory struct {
	Deeds []models.CompletedDeed `json:"deeds"`
	Total int64                  `json:"total"`
}

// History lists a user's completions for a period, newest first, with the
// summed total for the same window.
func (s *DeedService) History(userID uint, period string) (DeedHistory, error) {
	filter, err := types.PeriodFilterFor(period, time.Now())
	if err != nil {
		return DeedHistory{}, err
	}

	q := s.DB.Where("user_id = ?", userID)
	if !filter.All {
		q = q.Where("deed_date >= ? AND deed_date < ?", filter.Since, filter.Until)
	}

	var history DeedHistory
	if err := q.Order("completed_at DESC").Find(&history.Deeds).Error; err != nil {
		return DeedHistory{}, err
	}

	sumQ := s.DB.Model(&models.CompletedDeed{}).Where("user_id = ?", userID)
	if !filter.All {
		sumQ = sumQ.Where("deed_date >= ? AND deed_date < ?", filter.Since, filter.Until)
	}
	if err := sumQ.Select("COALESCE(SUM(total_points), 0)").Scan(&history.Total).Error; err != nil {
		return DeedHistory{}, err
	}

	return history, nil
}

// Catalog lists the predefined deeds, optionally filtered by category.
func (s *DeedService) Catalog(category string) ([]models.PredefinedGoodDeed, error) {
	q := s.DB.Order("category, base_points")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var deeds []models.PredefinedGoodDeed
	if err := q.Find(&deeds).Error; err != nil {
		return nil, err
	}
	return deeds, nil
}
