package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nuzul/api-go/config"
	"github.com/nuzul/api-go/controllers"
	"github.com/nuzul/api-go/middleware"
	"github.com/nuzul/api-go/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, settings config.Settings, leaderboard *services.LeaderboardService, deeds *services.DeedService) {
	// Initialize controllers
	authController := controllers.NewAuthController(db, settings)
	deedController := controllers.NewDeedController(deeds)
	leaderboardController := controllers.NewLeaderboardController(leaderboard)
	uploadController := controllers.NewUploadController(db)
	geographyController := controllers.NewGeographyController(db)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/auth/google", authController.GoogleSignIn)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(settings.JWTSecret))
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		SetupDeedRoutes(protected, deedController)
		SetupLeaderboardRoutes(protected, leaderboardController)
		SetupUploadRoutes(protected, uploadController)
		SetupGeographyRoutes(protected, geographyController)
	}
}
