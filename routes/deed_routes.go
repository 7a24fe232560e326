package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nuzul/api-go/controllers"
)

func SetupDeedRoutes(protected *gin.RouterGroup, deedController *controllers.DeedController) {
	deeds := protected.Group("/deeds")
	{
		deeds.POST("", deedController.CreateDeed)
		deeds.GET("", deedController.GetDeeds)
		deeds.GET("/catalog", deedController.GetCatalog)
	}
}
