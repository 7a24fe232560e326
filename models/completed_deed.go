package models

import "time"

// CompletedDeed is an append-only event record, one row per completion.
// TotalPoints = floor((BasePoints+BonusPoints)*Multiplier) holds at creation
// and the row is never mutated afterwards.
type CompletedDeed struct {
	ID             uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint                `gorm:"not null;index:idx_completed_deeds_user_date" json:"user_id"`
	User           User                `json:"-" gorm:"foreignKey:UserID"`
	GoodDeedID     *uint               `json:"good_deed_id"`
	GoodDeed       *PredefinedGoodDeed `json:"good_deed,omitempty" gorm:"foreignKey:GoodDeedID"`
	CustomDeedName *string             `json:"custom_deed_name"`
	Category       string              `gorm:"not null;index;type:varchar(20)" json:"category"`
	DeedDate       time.Time           `gorm:"not null;type:date;index:idx_completed_deeds_user_date" json:"deed_date"`
	CompletedAt    time.Time           `gorm:"not null" json:"completed_at"`
	BasePoints     int                 `gorm:"not null" json:"base_points"`
	BonusPoints    int                 `gorm:"not null;default:0" json:"bonus_points"`
	Multiplier     float64             `gorm:"not null;default:1" json:"multiplier"`
	TotalPoints    int                 `gorm:"not null" json:"total_points"`
	IsStreakBonus  bool                `gorm:"default:false" json:"is_streak_bonus"`
	IsPowerDay     bool                `gorm:"default:false" json:"is_power_day"`
	Notes          string              `gorm:"type:text" json:"notes"`
}
