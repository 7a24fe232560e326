package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nuzul/api-go/models"
	"github.com/nuzul/api-go/types"
	"github.com/nuzul/api-go/utils"
)

// Cache date used for the overall period, which has no natural window start.
var overallCacheDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

type refreshRequest struct {
	userID uint
	date   time.Time
}

// LeaderboardService maintains the leaderboard_cache rollups and answers
// ranked queries against the live completed_deeds table.
//
// Cache refreshes run on a single worker goroutine fed by a buffered
// channel, so there is exactly one writer to the cache table and a dropped
// or failed refresh can never fail a completion write.
type LeaderboardService struct {
	DB  *gorm.DB
	Log *zap.Logger

	refreshCh chan refreshRequest
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

func NewLeaderboardService(db *gorm.DB, log *zap.Logger) *LeaderboardService {
	s := &LeaderboardService{
		DB:        db,
		Log:       log,
		refreshCh: make(chan refreshRequest, 256),
		done:      make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		for req := range s.refreshCh {
			if err := s.RefreshUser(req.userID, req.date); err != nil {
				s.Log.Error("leaderboard cache refresh failed",
					zap.Uint("user_id", req.userID),
					zap.Time("date", req.date),
					zap.Error(err))
			}
		}
	}()

	return s
}

// EnqueueRefresh schedules a cache recompute for the user. Never blocks and
// never returns an error: when the queue is full the request is dropped with
// a log line, the live table stays authoritative either way.
func (s *LeaderboardService) EnqueueRefresh(userID uint, date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.refreshCh <- refreshRequest{userID: userID, date: date}:
	default:
		s.Log.Warn("leaderboard refresh queue full, dropping request",
			zap.Uint("user_id", userID))
	}
}

// Close drains the refresh queue and stops the worker.
func (s *LeaderboardService) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.refreshCh)
		s.mu.Unlock()
		<-s.done
	})
}

// RefreshUser recomputes the user's point totals for every period and every
// scope the user belongs to, and upserts one cache row per combination:
// 3 periods x (global + country + division + district) when the user has a
// full geographic assignment.
func (s *LeaderboardService) RefreshUser(userID uint, date time.Time) error {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return err
	}

	scopes := []types.ScopeFilter{{ScopeType: models.ScopeGlobal}}
	if user.CountryID != nil {
		scopes = append(scopes, types.ScopeFilter{ScopeType: models.ScopeCountry, ScopeID: *user.CountryID})
	}
	if user.DivisionID != nil {
		scopes = append(scopes, types.ScopeFilter{ScopeType: models.ScopeDivision, ScopeID: *user.DivisionID})
	}
	if user.DistrictID != nil {
		scopes = append(scopes, types.ScopeFilter{ScopeType: models.ScopeDistrict, ScopeID: *user.DistrictID})
	}

	for _, period := range []string{models.PeriodDaily, models.PeriodWeekly, models.PeriodOverall} {
		filter, err := types.PeriodFilterFor(period, date)
		if err != nil {
			return err
		}

		points, err := s.sumUserPoints(userID, filter)
		if err != nil {
			return err
		}

		cacheDate := overallCacheDate
		switch period {
		case models.PeriodDaily:
			cacheDate = types.StartOfDay(date)
		case models.PeriodWeekly:
			cacheDate = types.StartOfWeek(date)
		}

		for _, scope := range scopes {
			entry := models.LeaderboardCache{
				UserID:    userID,
				Period:    period,
				ScopeType: scope.ScopeType,
				ScopeID:   scope.ScopeID,
				CacheDate: cacheDate,
				Points:    points,
				UpdatedAt: time.Now(),
			}

			err := s.DB.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "user_id"}, {Name: "period"}, {Name: "scope_type"},
					{Name: "scope_id"}, {Name: "cache_date"},
				},
				DoUpdates: clause.AssignmentColumns([]string{"points", "updated_at"}),
			}).Create(&entry).Error
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *LeaderboardService) sumUserPoints(userID uint, filter types.PeriodFilter) (int64, error) {
	q := s.DB.Model(&models.CompletedDeed{}).Where("user_id = ?", userID)
	if !filter.All {
		q = q.Where("deed_date >= ? AND deed_date < ?", filter.Since, filter.Until)
	}

	var points int64
	err := q.Select("COALESCE(SUM(total_points), 0)").Scan(&points).Error
	return points, err
}

type LeaderboardQueryParams struct {
	Period        types.PeriodFilter
	Scope         types.ScopeFilter
	Page          int
	Limit         int
	CurrentUserID uint
}

// Query answers one ranked leaderboard page against completed_deeds. Errors
// are returned to the caller; the HTTP layer decides whether to degrade to
// an empty page.
func (s *LeaderboardService) Query(params LeaderboardQueryParams) (types.LeaderboardPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}
	offset := (params.Page - 1) * params.Limit

	type row struct {
		UserID    uint
		UserName  string
		UserImage string
		Points    int64
	}

	var rows []row
	err := s.rankedQuery(params.Period, params.Scope).
		Select("completed_deeds.user_id AS user_id, users.name AS user_name, users.avatar AS user_image, COALESCE(SUM(completed_deeds.total_points), 0) AS points").
		Group("completed_deeds.user_id, users.name, users.avatar").
		Order("points DESC").
		Offset(offset).
		Limit(params.Limit).
		Scan(&rows).Error
	if err != nil {
		return types.LeaderboardPage{}, err
	}

	page := types.LeaderboardPage{Entries: make([]types.LeaderboardEntry, 0, len(rows))}
	for i, r := range rows {
		entry := types.LeaderboardEntry{
			Rank:   offset + i + 1,
			UserID: r.UserID,
			Points: r.Points,
		}
		if r.UserID == params.CurrentUserID && params.CurrentUserID != 0 {
			entry.UserName = r.UserName
			entry.UserImage = r.UserImage
			entry.IsCurrent = true
		} else {
			entry.UserName = utils.AnonymizeName(r.UserID)
		}
		page.Entries = append(page.Entries, entry)
	}

	totalUsers, err := s.countRankedUsers(params.Period, params.Scope)
	if err != nil {
		return types.LeaderboardPage{}, err
	}
	page.TotalUsers = totalUsers

	if params.CurrentUserID != 0 {
		rank, err := s.userRank(params.Period, params.Scope, params.CurrentUserID)
		if err != nil {
			return types.LeaderboardPage{}, err
		}
		page.UserRank = rank
	}

	return page, nil
}

// rankedQuery builds the shared FROM/WHERE of every leaderboard aggregation:
// completions joined to live users, filtered by period window and scope
// column. Scope columns come from a fixed switch, never from request input.
func (s *LeaderboardService) rankedQuery(period types.PeriodFilter, scope types.ScopeFilter) *gorm.DB {
	q := s.DB.Model(&models.CompletedDeed{}).
		Joins("JOIN users ON users.id = completed_deeds.user_id AND users.deleted_at IS NULL")

	if !period.All {
		q = q.Where("completed_deeds.deed_date >= ? AND completed_deeds.deed_date < ?", period.Since, period.Until)
	}
	if column := scope.UserColumn(); column != "" {
		q = q.Where("users."+column+" = ?", scope.ScopeID)
	}
	return q
}

func (s *LeaderboardService) countRankedUsers(period types.PeriodFilter, scope types.ScopeFilter) (int64, error) {
	var total int64
	err := s.rankedQuery(period, scope).
		Distinct("completed_deeds.user_id").
		Count(&total).Error
	return total, err
}

// userRank computes the requesting user's standing separately: their summed
// points under the same filters, ranked as 1 + the number of users with a
// strictly greater sum. Users with zero points get no rank entry at all.
func (s *LeaderboardService) userRank(period types.PeriodFilter, scope types.ScopeFilter, userID uint) (*types.UserRank, error) {
	var points int64
	err := s.rankedQuery(period, scope).
		Where("completed_deeds.user_id = ?", userID).
		Select("COALESCE(SUM(completed_deeds.total_points), 0)").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	if points == 0 {
		return nil, nil
	}

	where, args := rankFilterSQL(period, scope)
	query := `
		SELECT COUNT(*) FROM (
			SELECT completed_deeds.user_id
			FROM completed_deeds
			JOIN users ON users.id = completed_deeds.user_id AND users.deleted_at IS NULL
			WHERE completed_deeds.user_id <> ?` + where + `
			GROUP BY completed_deeds.user_id
			HAVING COALESCE(SUM(completed_deeds.total_points), 0) > ?
		) AS better`

	var better int64
	queryArgs := append([]interface{}{userID}, args...)
	queryArgs = append(queryArgs, points)
	if err := s.DB.Raw(query, queryArgs...).Scan(&better).Error; err != nil {
		return nil, err
	}

	return &types.UserRank{Rank: int(better) + 1, Points: points}, nil
}

// rankFilterSQL renders the period/scope filters as AND-prefixed SQL with
// bound parameters. The scope column name comes from the typed filter, never
// from request input.
func rankFilterSQL(period types.PeriodFilter, scope types.ScopeFilter) (string, []interface{}) {
	var where string
	var args []interface{}
	if !period.All {
		where += " AND completed_deeds.deed_date >= ? AND completed_deeds.deed_date < ?"
		args = append(args, period.Since, period.Until)
	}
	if column := scope.UserColumn(); column != "" {
		where += " AND users." + column + " = ?"
		args = append(args, scope.ScopeID)
	}
	return where, args
}

// DistrictLeaderboard ranks districts by their users' all-time points.
func (s *LeaderboardService) DistrictLeaderboard(page, limit int) ([]types.DistrictStanding, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	type row struct {
		DistrictID uint
		Name       string
		Points     int64
	}

	var rows []row
	err := s.DB.Model(&models.CompletedDeed{}).
		Select("users.district_id AS district_id, districts.name AS name, COALESCE(SUM(completed_deeds.total_points), 0) AS points").
		Joins("JOIN users ON users.id = completed_deeds.user_id AND users.deleted_at IS NULL").
		Joins("JOIN districts ON districts.id = users.district_id").
		Group("users.district_id, districts.name").
		Order("points DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	standings := make([]types.DistrictStanding, 0, len(rows))
	for i, r := range rows {
		standings = append(standings, types.DistrictStanding{
			Rank:       offset + i + 1,
			DistrictID: r.DistrictID,
			Name:       r.Name,
			Points:     r.Points,
		})
	}

	var total int64
	err = s.DB.Model(&models.CompletedDeed{}).
		Joins("JOIN users ON users.id = completed_deeds.user_id AND users.deleted_at IS NULL").
		Where("users.district_id IS NOT NULL").
		Distinct("users.district_id").
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	return standings, total, nil
}

// DistrictRank returns the standing of one district, or nil when the
// district has no points yet.
func (s *LeaderboardService) DistrictRank(districtID uint) (*types.DistrictStanding, error) {
	districtPoints := func(q *gorm.DB) *gorm.DB {
		return q.Model(&models.CompletedDeed{}).
			Joins("JOIN users ON users.id = completed_deeds.user_id AND users.deleted_at IS NULL")
	}

	var points int64
	err := districtPoints(s.DB).
		Where("users.district_id = ?", districtID).
		Select("COALESCE(SUM(completed_deeds.total_points), 0)").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	if points == 0 {
		return nil, nil
	}

	var better int64
	err = s.DB.Raw(`
		SELECT COUNT(*) FROM (
			SELECT users.district_id
			FROM completed_deeds
			JOIN users ON users.id = completed_deeds.user_id AND users.deleted_at IS NULL
			WHERE users.district_id IS NOT NULL AND users.district_id <> ?
			GROUP BY users.district_id
			HAVING COALESCE(SUM(completed_deeds.total_points), 0) > ?
		) AS better`, districtID, points).Scan(&better).Error
	if err != nil {
		return nil, err
	}

	var district models.District
	if err := s.DB.First(&district, districtID).Error; err != nil {
		return nil, err
	}

	return &types.DistrictStanding{
		Rank:       int(better) + 1,
		DistrictID: districtID,
		Name:       district.Name,
		Points:     points,
	}, nil
}
