package models

import "time"

// Leaderboard periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodOverall = "overall"
)

// Leaderboard scope types.
const (
	ScopeGlobal   = "global"
	ScopeCountry  = "country"
	ScopeDivision = "division"
	ScopeDistrict = "district"
)

// LeaderboardCache is a denormalized rollup of a user's points for one
// (period, scope) combination. completed_deeds stays the source of truth;
// rows here are upserted by the cache refresher and may lag behind it.
// ScopeID is 0 for the global scope so the unique index stays total.
type LeaderboardCache struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_leaderboard_cache_key" json:"user_id"`
	Period    string    `gorm:"not null;type:varchar(10);uniqueIndex:idx_leaderboard_cache_key" json:"period"`
	ScopeType string    `gorm:"not null;type:varchar(10);uniqueIndex:idx_leaderboard_cache_key" json:"scope_type"`
	ScopeID   uint      `gorm:"not null;default:0;uniqueIndex:idx_leaderboard_cache_key" json:"scope_id"`
	CacheDate time.Time `gorm:"not null;type:date;uniqueIndex:idx_leaderboard_cache_key" json:"cache_date"`
	Points    int64     `gorm:"not null;default:0" json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LeaderboardCache) TableName() string {
	return "leaderboard_cache"
}
