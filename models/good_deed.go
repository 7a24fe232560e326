package models

import (
	"time"

	"github.com/lib/pq"
)

// Deed tiers.
const (
	DeedTierEasy   = "easy"
	DeedTierMedium = "medium"
	DeedTierHard   = "hard"
)

// Deed categories. CategoryPrayer is the one the streak bonus counts.
const (
	CategoryPrayer  = "prayer"
	CategoryQuran   = "quran"
	CategoryCharity = "charity"
	CategoryDhikr   = "dhikr"
	CategoryCustom  = "custom"
)

// PredefinedGoodDeed is a catalog entry. Immutable reference data, seeded once.
type PredefinedGoodDeed struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	NameEn        string         `gorm:"not null" json:"name_en"`
	NameBn        string         `json:"name_bn"`
	DescriptionEn string         `gorm:"type:text" json:"description_en"`
	DescriptionBn string         `gorm:"type:text" json:"description_bn"`
	Tier          string         `gorm:"not null;type:varchar(10)" json:"tier"` // easy, medium, hard
	Category      string         `gorm:"not null;index;type:varchar(20)" json:"category"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"`
	BasePoints    int            `gorm:"not null;default:10" json:"base_points"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (PredefinedGoodDeed) TableName() string {
	return "predefined_good_deeds"
}
