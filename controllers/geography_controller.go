package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nuzul/api-go/models"
)

// GeographyController serves the country/division/district reference lists
// the profile screen needs to assign a leaderboard scope.
type GeographyController struct {
	DB *gorm.DB
}

func NewGeographyController(db *gorm.DB) *GeographyController {
	return &GeographyController{DB: db}
}

func (gc *GeographyController) GetCountries(c *gin.Context) {
	var countries []models.Country
	if err := gc.DB.Order("name").Find(&countries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Failed to load countries"})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: countries})
}

func (gc *GeographyController) GetDivisions(c *gin.Context) {
	countryID, err := strconv.ParseUint(c.Param("countryId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "Invalid country id"})
		return
	}

	var divisions []models.Division
	if err := gc.DB.Where("country_id = ?", countryID).Order("name").Find(&divisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Failed to load divisions"})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: divisions})
}

func (gc *GeographyController) GetDistricts(c *gin.Context) {
	divisionID, err := strconv.ParseUint(c.Param("divisionId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "Invalid division id"})
		return
	}

	var districts []models.District
	if err := gc.DB.Where("division_id = ?", divisionID).Order("name").Find(&districts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Failed to load districts"})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: districts})
}
