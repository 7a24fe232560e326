package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nuzul/api-go/controllers"
)

func SetupGeographyRoutes(protected *gin.RouterGroup, geographyController *controllers.GeographyController) {
	geography := protected.Group("/geography")
	{
		geography.GET("/countries", geographyController.GetCountries)
		geography.GET("/countries/:countryId/divisions", geographyController.GetDivisions)
		geography.GET("/divisions/:divisionId/districts", geographyController.GetDistricts)
	}
}
