package types

import (
	"math"
	"time"
)

const (
	DEFAULT_CUSTOM_DEED_POINTS = 10
	POWER_DAY_MULTIPLIER       = 2.0
	NORMAL_DAY_MULTIPLIER      = 1.0

	// Last ten nights of Ramadan.
	RAMADAN_POWER_START_DAY = 21
	RAMADAN_POWER_END_DAY   = 30

	// Trailing window (days, inclusive of the completion date) scanned for
	// prayer-streak days. 30 days so every streak tier below is reachable.
	STREAK_LOOKBACK_DAYS = 30
)

// Streak tiers: distinct prayer days within the lookback window -> bonus.
type StreakTier struct {
	MinDays int
	Bonus   int
}

func GetStreakTiers() []StreakTier {
	return []StreakTier{
		{MinDays: 30, Bonus: 1000},
		{MinDays: 15, Bonus: 250},
		{MinDays: 7, Bonus: 100},
	}
}

// PointsBreakdown is the full result of scoring one deed completion.
type PointsBreakdown struct {
	BasePoints    int     `json:"base_points"`
	BonusPoints   int     `json:"bonus_points"`
	Multiplier    float64 `json:"multiplier"`
	TotalPoints   int     `json:"total_points"`
	IsStreakBonus bool    `json:"is_streak_bonus"`
	IsPowerDay    bool    `json:"is_power_day"`
}

// IsPowerDay reports whether date earns the 2x multiplier: Friday, or one of
// the last ten days of Ramadan. ramadanDay <= 0 means "not during Ramadan /
// unknown".
func IsPowerDay(date time.Time, ramadanDay int) bool {
	if date.Weekday() == time.Friday {
		return true
	}
	return ramadanDay >= RAMADAN_POWER_START_DAY && ramadanDay <= RAMADAN_POWER_END_DAY
}

// StreakBonus maps the distinct-prayer-day count from the lookback window to
// a bonus value. Zero when no tier is reached.
func StreakBonus(uniquePrayerDays int) int {
	for _, tier := range GetStreakTiers() {
		if uniquePrayerDays >= tier.MinDays {
			return tier.Bonus
		}
	}
	return 0
}

// CalculatePoints scores one completion. uniquePrayerDays is the number of
// distinct calendar days with at least one prayer-category completion in the
// trailing STREAK_LOOKBACK_DAYS window ending on date (inclusive).
func CalculatePoints(basePoints int, date time.Time, ramadanDay int, uniquePrayerDays int) PointsBreakdown {
	if basePoints < 0 {
		basePoints = 0
	}

	bonus := StreakBonus(uniquePrayerDays)

	multiplier := NORMAL_DAY_MULTIPLIER
	powerDay := IsPowerDay(date, ramadanDay)
	if powerDay {
		multiplier = POWER_DAY_MULTIPLIER
	}

	total := int(math.Floor(float64(basePoints+bonus) * multiplier))

	return PointsBreakdown{
		BasePoints:    basePoints,
		BonusPoints:   bonus,
		Multiplier:    multiplier,
		TotalPoints:   total,
		IsStreakBonus: bonus > 0,
		IsPowerDay:    powerDay,
	}
}

// RamadanDayFor derives the 1-based Ramadan day number of date given the
// first day of Ramadan. Returns 0 outside the month.
func RamadanDayFor(date, ramadanStart time.Time) int {
	day := StartOfDay(date)
	start := StartOfDay(ramadanStart)
	diff := int(day.Sub(start).Hours() / 24)
	if diff < 0 || diff >= 30 {
		return 0
	}
	return diff + 1
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
