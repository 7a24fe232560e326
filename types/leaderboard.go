package types

import (
	"fmt"
	"time"
)

// PeriodFilter is one of the three time windows a leaderboard can cover.
type PeriodFilter struct {
	Period string // models.PeriodDaily / PeriodWeekly / PeriodOverall
	Since  time.Time
	Until  time.Time
	All    bool
}

// PeriodFilterFor builds the date window for a period relative to now.
// daily covers exactly the current day, weekly runs from Monday 00:00,
// overall has no bounds.
func PeriodFilterFor(period string, now time.Time) (PeriodFilter, error) {
	switch period {
	case "daily":
		day := StartOfDay(now)
		return PeriodFilter{Period: period, Since: day, Until: day.AddDate(0, 0, 1)}, nil
	case "weekly":
		return PeriodFilter{Period: period, Since: StartOfWeek(now), Until: StartOfDay(now).AddDate(0, 0, 1)}, nil
	case "overall":
		return PeriodFilter{Period: period, All: true}, nil
	default:
		return PeriodFilter{}, fmt.Errorf("unknown period %q", period)
	}
}

// ScopeFilter is one geographic slice of the leaderboard. ScopeID is 0 for
// the global scope and required for every other scope type.
type ScopeFilter struct {
	ScopeType string // models.ScopeGlobal / ScopeCountry / ScopeDivision / ScopeDistrict
	ScopeID   uint
}

// UserColumn returns the users-table column the scope filters on, or "" for
// the global scope.
func (s ScopeFilter) UserColumn() string {
	switch s.ScopeType {
	case "country":
		return "country_id"
	case "division":
		return "division_id"
	case "district":
		return "district_id"
	}
	return ""
}

// ScopeFilterFor validates a scope type / id pair.
func ScopeFilterFor(scopeType string, scopeID uint) (ScopeFilter, error) {
	switch scopeType {
	case "global":
		return ScopeFilter{ScopeType: scopeType}, nil
	case "country", "division", "district":
		if scopeID == 0 {
			return ScopeFilter{}, fmt.Errorf("scopeId is required for scope %q", scopeType)
		}
		return ScopeFilter{ScopeType: scopeType, ScopeID: scopeID}, nil
	default:
		return ScopeFilter{}, fmt.Errorf("unknown scope %q", scopeType)
	}
}

// LeaderboardEntry is one ranked row. For everyone except the requesting
// user the name is anonymized and the avatar cleared before it leaves the
// query service.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	UserImage string `json:"user_image,omitempty"`
	Points    int64  `json:"points"`
	IsCurrent bool   `json:"is_current_user,omitempty"`
}

// UserRank is the requesting user's own standing. Absent entirely (nil) when
// the user has no points in the period.
type UserRank struct {
	Rank   int   `json:"rank"`
	Points int64 `json:"points"`
}

// LeaderboardPage is the result of one ranked query.
type LeaderboardPage struct {
	Entries    []LeaderboardEntry `json:"entries"`
	UserRank   *UserRank          `json:"user_rank,omitempty"`
	TotalUsers int64              `json:"total_users"`
}

// DistrictStanding is one row of the district aggregate view.
type DistrictStanding struct {
	Rank       int    `json:"rank"`
	DistrictID uint   `json:"district_id"`
	Name       string `json:"name"`
	Points     int64  `json:"points"`
}
