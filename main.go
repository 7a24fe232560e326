package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuzul/api-go/config"
	"github.com/nuzul/api-go/logger"
	"github.com/nuzul/api-go/middleware"
	"github.com/nuzul/api-go/routes"
	"github.com/nuzul/api-go/services"
)

func main() {
	settings := config.LoadSettings()

	logger.Initialize(logger.Configuration{Level: settings.LogLevel})
	defer logger.Sync()

	db := config.InitDB()
	if err := config.SeedReferenceData(db); err != nil {
		logger.Error("failed to seed reference data", zap.Error(err))
	}

	leaderboard := services.NewLeaderboardService(db, logger.Get())
	defer leaderboard.Close()

	deeds := services.NewDeedService(db, settings, leaderboard, logger.Get())

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	routes.SetupRoutes(r, db, settings, leaderboard, deeds)

	logger.Info("starting server", zap.String("port", settings.Port))
	if err := r.Run(":" + settings.Port); err != nil {
		logger.Error("server exited", zap.Error(err))
	}
}
