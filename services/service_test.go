package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nuzul/api-go/config"
	"github.com/nuzul/api-go/models"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// One connection keeps the refresh worker and the test goroutine from
	// contending on the in-memory database.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestLeaderboard(t *testing.T, db *gorm.DB) *LeaderboardService {
	t.Helper()
	service := NewLeaderboardService(db, zap.NewNop())
	t.Cleanup(service.Close)
	return service
}

// seedGeo creates one country/division/district chain and returns it.
func seedGeo(t *testing.T, db *gorm.DB, divisionName, districtName string) (models.Country, models.Division, models.District) {
	t.Helper()

	var country models.Country
	if err := db.Where("code = ?", "BD").First(&country).Error; err != nil {
		country = models.Country{Name: "Bangladesh", Code: "BD"}
		if err := db.Create(&country).Error; err != nil {
			t.Fatalf("failed to create country: %v", err)
		}
	}

	division := models.Division{Name: divisionName, CountryID: country.ID}
	if err := db.Create(&division).Error; err != nil {
		t.Fatalf("failed to create division: %v", err)
	}
	district := models.District{Name: districtName, DivisionID: division.ID}
	if err := db.Create(&district).Error; err != nil {
		t.Fatalf("failed to create district: %v", err)
	}
	return country, division, district
}

func seedUser(t *testing.T, db *gorm.DB, username string, district *models.District) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Name:     username,
		Email:    username + "@example.com",
		Avatar:   "https://cdn.example.com/" + username + ".png",
	}
	if district != nil {
		var division models.Division
		if err := db.First(&division, district.DivisionID).Error; err != nil {
			t.Fatalf("failed to load division: %v", err)
		}
		user.CountryID = &division.CountryID
		user.DivisionID = &district.DivisionID
		user.DistrictID = &district.ID
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func seedCompletion(t *testing.T, db *gorm.DB, userID uint, category string, day time.Time, totalPoints int) {
	t.Helper()

	deed := models.CompletedDeed{
		UserID:      userID,
		Category:    category,
		DeedDate:    day,
		CompletedAt: day.Add(10 * time.Hour),
		BasePoints:  totalPoints,
		Multiplier:  1.0,
		TotalPoints: totalPoints,
	}
	if err := db.Create(&deed).Error; err != nil {
		t.Fatalf("failed to create completion: %v", err)
	}
}
