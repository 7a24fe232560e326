package services

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nuzul/api-go/config"
	"github.com/nuzul/api-go/models"
	"github.com/nuzul/api-go/types"
)

var (
	testWednesday = time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
	testFriday    = time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)
)

func newTestDeedService(t *testing.T, settings config.Settings) (*DeedService, *LeaderboardService) {
	t.Helper()
	db := newTestDB(t)
	leaderboard := newTestLeaderboard(t, db)
	return NewDeedService(db, settings, leaderboard, zap.NewNop()), leaderboard
}

func seedCatalogDeed(t *testing.T, s *DeedService, name, category string, points int) models.PredefinedGoodDeed {
	t.Helper()
	deed := models.PredefinedGoodDeed{
		NameEn:     name,
		Tier:       models.DeedTierMedium,
		Category:   category,
		BasePoints: points,
	}
	if err := s.DB.Create(&deed).Error; err != nil {
		t.Fatalf("failed to seed catalog deed: %v", err)
	}
	return deed
}

func TestRecordCompletionFromCatalog(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "amina", nil)
	deed := seedCatalogDeed(t, s, "Fajr prayer", models.CategoryPrayer, 50)

	completed, err := s.RecordCompletion(RecordCompletionInput{
		UserID:     user.ID,
		GoodDeedID: &deed.ID,
		Date:       testWednesday,
	})
	if err != nil {
		t.Fatal(err)
	}

	if completed.BasePoints != 50 || completed.BonusPoints != 0 || completed.Multiplier != 1.0 {
		t.Errorf("unexpected breakdown: %+v", completed)
	}
	if completed.TotalPoints != 50 || completed.IsPowerDay || completed.IsStreakBonus {
		t.Errorf("unexpected totals: %+v", completed)
	}
	if completed.Category != models.CategoryPrayer {
		t.Errorf("category should come from the catalog, got %q", completed.Category)
	}
	if !completed.DeedDate.Equal(types.StartOfDay(testWednesday)) {
		t.Errorf("deed date should be truncated to the day: %v", completed.DeedDate)
	}
	if !completed.CompletedAt.Equal(testWednesday) {
		t.Errorf("completed at should keep the exact instant: %v", completed.CompletedAt)
	}
}

func TestRecordCompletionCustomDeed(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "bilal", nil)

	name := "Helped a neighbour"
	completed, err := s.RecordCompletion(RecordCompletionInput{
		UserID:         user.ID,
		CustomDeedName: &name,
		Date:           testWednesday,
	})
	if err != nil {
		t.Fatal(err)
	}

	if completed.BasePoints != types.DEFAULT_CUSTOM_DEED_POINTS {
		t.Errorf("custom deeds should earn the default base, got %d", completed.BasePoints)
	}
	if completed.Category != models.CategoryCustom {
		t.Errorf("custom deeds should carry the custom category, got %q", completed.Category)
	}
}

func TestRecordCompletionMissingCatalogEntryFallsBack(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "dawud", nil)

	missing := uint(9999)
	completed, err := s.RecordCompletion(RecordCompletionInput{
		UserID:     user.ID,
		GoodDeedID: &missing,
		Date:       testWednesday,
	})
	if err != nil {
		t.Fatal(err)
	}
	if completed.BasePoints != types.DEFAULT_CUSTOM_DEED_POINTS {
		t.Errorf("missing catalog entry should degrade to the default base, got %d", completed.BasePoints)
	}
}

func TestRecordCompletionRequiresDeedIdentity(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "esa", nil)

	_, err := s.RecordCompletion(RecordCompletionInput{UserID: user.ID, Date: testWednesday})
	if !errors.Is(err, ErrMissingDeedIdentity) {
		t.Errorf("expected ErrMissingDeedIdentity, got %v", err)
	}

	var count int64
	s.DB.Model(&models.CompletedDeed{}).Count(&count)
	if count != 0 {
		t.Errorf("nothing should be persisted on validation failure, found %d rows", count)
	}
}

func TestStreakBonusAtSevenPrayerDays(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "fatima", nil)
	deed := seedCatalogDeed(t, s, "Fajr prayer", models.CategoryPrayer, 50)

	day := types.StartOfDay(testWednesday)
	for i := 1; i <= 7; i++ {
		seedCompletion(t, s.DB, user.ID, models.CategoryPrayer, day.AddDate(0, 0, -i), 50)
	}

	completed, err := s.RecordCompletion(RecordCompletionInput{
		UserID:     user.ID,
		GoodDeedID: &deed.ID,
		Date:       testWednesday,
	})
	if err != nil {
		t.Fatal(err)
	}
	if completed.BonusPoints != 100 || !completed.IsStreakBonus {
		t.Errorf("7 prayer days should earn the 100 bonus: %+v", completed)
	}
	if completed.TotalPoints != 150 {
		t.Errorf("expected 150 total, got %d", completed.TotalPoints)
	}
}

func TestNoStreakBonusBelowSevenDays(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "ghali", nil)
	deed := seedCatalogDeed(t, s, "Fajr prayer", models.CategoryPrayer, 50)

	day := types.StartOfDay(testWednesday)
	for i := 1; i <= 6; i++ {
		seedCompletion(t, s.DB, user.ID, models.CategoryPrayer, day.AddDate(0, 0, -i), 50)
	}

	completed, err := s.RecordCompletion(RecordCompletionInput{
		UserID:     user.ID,
		GoodDeedID: &deed.ID,
		Date:       testWednesday,
	})
	if err != nil {
		t.Fatal(err)
	}
	if completed.BonusPoints != 0 || completed.IsStreakBonus {
		t.Errorf("6 prayer days should earn no bonus: %+v", completed)
	}
}

func TestOnlyPrayerDeedsCountTowardStreak(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "hafsa", nil)
	deed := seedCatalogDeed(t, s, "Fajr prayer", models.CategoryPrayer, 50)

	day := types.StartOfDay(testWednesday)
	for i := 1; i <= 10; i++ {
		seedCompletion(t, s.DB, user.ID, models.CategoryCharity, day.AddDate(0, 0, -i), 50)
	}

	completed, err := s.RecordCompletion(RecordCompletionInput{
		UserID:     user.ID,
		GoodDeedID: &deed.ID,
		Date:       testWednesday,
	})
	if err != nil {
		t.Fatal(err)
	}
	if completed.BonusPoints != 0 {
		t.Errorf("charity completions should not count toward the prayer streak: %+v", completed)
	}
}

func TestOutsideLookbackWindowIgnored(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "idris", nil)
	deed := seedCatalogDeed(t, s, "Fajr prayer", models.CategoryPrayer, 50)

	day := types.StartOfDay(testWednesday)
	// 6 days inside the window plus a pile of days far outside it.
	for i := 1; i <= 6; i++ {
		seedCompletion(t, s.DB, user.ID, models.CategoryPrayer, day.AddDate(0, 0, -i), 50)
	}
	for i := 40; i <= 50; i++ {
		seedCompletion(t, s.DB, user.ID, models.CategoryPrayer, day.AddDate(0, 0, -i), 50)
	}

	completed, err := s.RecordCompletion(RecordCompletionInput{
		UserID:     user.ID,
		GoodDeedID: &deed.ID,
		Date:       testWednesday,
	})
	if err != nil {
		t.Fatal(err)
	}
	if completed.BonusPoints != 0 {
		t.Errorf("days outside the lookback window should not count: %+v", completed)
	}
}

func TestTwoDeedsSameDayScenario(t *testing.T) {
	s, leaderboard := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "jafar", nil)
	deed := seedCatalogDeed(t, s, "Fajr prayer", models.CategoryPrayer, 50)

	for i := 0; i < 2; i++ {
		completed, err := s.RecordCompletion(RecordCompletionInput{
			UserID:     user.ID,
			GoodDeedID: &deed.ID,
			Date:       testWednesday,
		})
		if err != nil {
			t.Fatal(err)
		}
		if completed.BasePoints != 50 || completed.Multiplier != 1.0 || completed.BonusPoints != 0 || completed.TotalPoints != 50 {
			t.Errorf("completion %d: %+v", i, completed)
		}
	}

	// Drain the refresh queue, then the daily global cache must hold 100.
	leaderboard.Close()

	var entry models.LeaderboardCache
	err := s.DB.Where("user_id = ? AND period = ? AND scope_type = ?",
		user.ID, models.PeriodDaily, models.ScopeGlobal).First(&entry).Error
	if err != nil {
		t.Fatal(err)
	}
	if entry.Points != 100 {
		t.Errorf("daily global cache should be 100, got %d", entry.Points)
	}
}

func TestFridayDoublesBothDeeds(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "khalid", nil)
	deed := seedCatalogDeed(t, s, "Fajr prayer", models.CategoryPrayer, 50)

	for i := 0; i < 2; i++ {
		completed, err := s.RecordCompletion(RecordCompletionInput{
			UserID:     user.ID,
			GoodDeedID: &deed.ID,
			Date:       testFriday,
		})
		if err != nil {
			t.Fatal(err)
		}
		if completed.Multiplier != 2.0 || completed.TotalPoints != 100 {
			t.Errorf("completion %d should double on Friday: %+v", i, completed)
		}
	}
}

func TestRamadanDayDerivedFromSettings(t *testing.T) {
	// testWednesday lands on day 25 with this start date.
	settings := config.Settings{RamadanStart: time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)}
	s, _ := newTestDeedService(t, settings)
	user := seedUser(t, s.DB, "layla", nil)
	deed := seedCatalogDeed(t, s, "Tarawih prayer", models.CategoryPrayer, 100)

	completed, err := s.RecordCompletion(RecordCompletionInput{
		UserID:     user.ID,
		GoodDeedID: &deed.ID,
		Date:       testWednesday,
	})
	if err != nil {
		t.Fatal(err)
	}
	if completed.Multiplier != 2.0 || !completed.IsPowerDay {
		t.Errorf("derived ramadan day 25 should be a power day: %+v", completed)
	}
}

func TestUserTotalPointsBumped(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "maryam", nil)
	deed := seedCatalogDeed(t, s, "Give charity", models.CategoryCharity, 60)

	if _, err := s.RecordCompletion(RecordCompletionInput{
		UserID:     user.ID,
		GoodDeedID: &deed.ID,
		Date:       testWednesday,
	}); err != nil {
		t.Fatal(err)
	}

	var reloaded models.User
	if err := s.DB.First(&reloaded, user.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.TotalPoints != 60 {
		t.Errorf("user running total should be 60, got %d", reloaded.TotalPoints)
	}
}

func TestHistoryFiltersByPeriod(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	user := seedUser(t, s.DB, "nuh", nil)

	today := types.StartOfDay(time.Now())
	seedCompletion(t, s.DB, user.ID, models.CategoryPrayer, today, 50)
	seedCompletion(t, s.DB, user.ID, models.CategoryPrayer, today, 30)
	seedCompletion(t, s.DB, user.ID, models.CategoryCharity, today.AddDate(0, 0, -60), 500)

	daily, err := s.History(user.ID, models.PeriodDaily)
	if err != nil {
		t.Fatal(err)
	}
	if len(daily.Deeds) != 2 || daily.Total != 80 {
		t.Errorf("daily history: %d deeds, total %d", len(daily.Deeds), daily.Total)
	}

	overall, err := s.History(user.ID, models.PeriodOverall)
	if err != nil {
		t.Fatal(err)
	}
	if len(overall.Deeds) != 3 || overall.Total != 580 {
		t.Errorf("overall history: %d deeds, total %d", len(overall.Deeds), overall.Total)
	}

	if _, err := s.History(user.ID, "fortnightly"); err == nil {
		t.Error("unknown period should error")
	}
}

func TestCatalogFiltersByCategory(t *testing.T) {
	s, _ := newTestDeedService(t, config.Settings{})
	seedCatalogDeed(t, s, "Fajr prayer", models.CategoryPrayer, 50)
	seedCatalogDeed(t, s, "Give charity", models.CategoryCharity, 60)

	all, err := s.Catalog("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 catalog deeds, got %d", len(all))
	}

	prayers, err := s.Catalog(models.CategoryPrayer)
	if err != nil {
		t.Fatal(err)
	}
	if len(prayers) != 1 || prayers[0].NameEn != "Fajr prayer" {
		t.Errorf("unexpected prayer catalog: %+v", prayers)
	}
}
