package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuzul/api-go/logger"
	"github.com/nuzul/api-go/services"
	"github.com/nuzul/api-go/utils"
)

type DeedController struct {
	Deeds *services.DeedService
}

func NewDeedController(deeds *services.DeedService) *DeedController {
	return &DeedController{Deeds: deeds}
}

type CreateDeedRequest struct {
	GoodDeedID     *uint   `json:"goodDeedId"`
	CustomDeedName *string `json:"customDeedName"`
	Date           string  `json:"date"` // RFC3339 or 2006-01-02, defaults to now
	Notes          string  `json:"notes"`
	RamadanDay     int     `json:"ramadanDayNumber" binding:"omitempty,min=1,max=30"`
}

// CreateDeed handles POST /deeds. Exactly one of goodDeedId and
// customDeedName must be present; that is enforced here, before anything is
// persisted.
func (dc *DeedController) CreateDeed(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateDeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	if (req.GoodDeedID == nil) == (req.CustomDeedName == nil) {
		c.JSON(http.StatusBadRequest, StandardResponse{
			Success: false,
			Message: "exactly one of goodDeedId or customDeedName is required",
		})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", req.Date)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "invalid date format"})
			return
		}
		date = parsed
	}

	completed, err := dc.Deeds.RecordCompletion(services.RecordCompletionInput{
		UserID:         user.UserID,
		GoodDeedID:     req.GoodDeedID,
		CustomDeedName: req.CustomDeedName,
		Date:           date,
		Notes:          req.Notes,
		RamadanDay:     req.RamadanDay,
	})
	if err != nil {
		logger.Error("failed to record deed completion", zap.Uint("user_id", user.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Failed to record deed"})
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    completed,
		Message: "Deed recorded",
	})
}

// GetDeeds handles GET /deeds?period= and returns the user's completion
// history plus the summed total for the period.
func (dc *DeedController) GetDeeds(c *gin.Context) {
	user := utils.GetUser(c)
	period := c.DefaultQuery("period", "overall")

	history, err := dc.Deeds.History(user.UserID, period)
	if err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    history,
		Meta:    gin.H{"period": period},
	})
}

// GetCatalog handles GET /deeds/catalog.
func (dc *DeedController) GetCatalog(c *gin.Context) {
	deeds, err := dc.Deeds.Catalog(c.Query("category"))
	if err != nil {
		logger.Error("failed to load deed catalog", zap.Error(err))
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Failed to load catalog"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: deeds})
}
