package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuzul/api-go/logger"
	"github.com/nuzul/api-go/services"
	"github.com/nuzul/api-go/types"
	"github.com/nuzul/api-go/utils"
)

type LeaderboardController struct {
	Leaderboard *services.LeaderboardService
}

type LeaderboardQuery struct {
	Period  string `form:"period,default=daily" binding:"omitempty,oneof=daily weekly overall"`
	Scope   string `form:"scope,default=global" binding:"omitempty,oneof=global country division district"`
	ScopeID uint   `form:"scopeId"`
	Page    int    `form:"page,default=1" binding:"min=1"`
	Limit   int    `form:"limit,default=10" binding:"min=1,max=50"`
}

func NewLeaderboardController(leaderboard *services.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{Leaderboard: leaderboard}
}

// GetLeaderboard handles GET /leaderboard. A failed query degrades to an
// empty page with a log line, the client never sees the error.
func (lc *LeaderboardController) GetLeaderboard(c *gin.Context) {
	var query LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	period, err := types.PeriodFilterFor(query.Period, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}
	scope, err := types.ScopeFilterFor(query.Scope, query.ScopeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	user := utils.GetUser(c)

	page, err := lc.Leaderboard.Query(services.LeaderboardQueryParams{
		Period:        period,
		Scope:         scope,
		Page:          query.Page,
		Limit:         query.Limit,
		CurrentUserID: user.UserID,
	})
	if err != nil {
		logger.Error("leaderboard query failed",
			zap.String("period", query.Period),
			zap.String("scope", query.Scope),
			zap.Error(err))
		page = types.LeaderboardPage{Entries: []types.LeaderboardEntry{}}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    page,
		Pagination: &PaginationMeta{
			CurrentPage: query.Page,
			PageSize:    query.Limit,
			TotalItems:  page.TotalUsers,
			TotalPages:  int(math.Ceil(float64(page.TotalUsers) / float64(query.Limit))),
		},
		Meta: gin.H{
			"period":  query.Period,
			"scope":   query.Scope,
			"scopeId": query.ScopeID,
		},
	})
}

// GetDistrictLeaderboard handles GET /leaderboard/districts: all-time totals
// grouped per district, plus the requesting user's own district standing.
func (lc *LeaderboardController) GetDistrictLeaderboard(c *gin.Context) {
	var query struct {
		Page  int `form:"page,default=1" binding:"min=1"`
		Limit int `form:"limit,default=10" binding:"min=1,max=50"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	standings, total, err := lc.Leaderboard.DistrictLeaderboard(query.Page, query.Limit)
	if err != nil {
		logger.Error("district leaderboard query failed", zap.Error(err))
		standings = []types.DistrictStanding{}
	}

	response := gin.H{"districts": standings, "total_districts": total}

	user := utils.GetUser(c)
	if districtID := lc.userDistrictID(user.UserID); districtID != 0 {
		if standing, err := lc.Leaderboard.DistrictRank(districtID); err != nil {
			logger.Error("district rank lookup failed", zap.Uint("district_id", districtID), zap.Error(err))
		} else if standing != nil {
			response["your_district"] = standing
		}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    response,
		Pagination: &PaginationMeta{
			CurrentPage: query.Page,
			PageSize:    query.Limit,
			TotalItems:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(query.Limit))),
		},
	})
}

func (lc *LeaderboardController) userDistrictID(userID uint) uint {
	var row struct{ DistrictID *uint }
	if err := lc.Leaderboard.DB.Table("users").Select("district_id").
		Where("id = ?", userID).Scan(&row).Error; err != nil || row.DistrictID == nil {
		return 0
	}
	return *row.DistrictID
}
