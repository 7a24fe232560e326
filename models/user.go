package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"deleted_at"`
	Username       string          `gorm:"unique;not null" json:"username"`
	Name           string          `json:"name"`
	Email          string          `gorm:"unique;not null" json:"email"`
	Password       *string         `json:"-"` // nil for Google-only accounts
	GoogleID       *string         `json:"-"`
	Avatar         string          `json:"avatar"`
	CountryID      *uint           `json:"country_id"`
	Country        *Country        `json:"country,omitempty" gorm:"foreignKey:CountryID"`
	DivisionID     *uint           `json:"division_id"`
	Division       *Division       `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
	DistrictID     *uint           `json:"district_id"`
	District       *District       `json:"district,omitempty" gorm:"foreignKey:DistrictID"`
	CompletedDeeds []CompletedDeed `json:"completed_deeds,omitempty" gorm:"foreignKey:UserID"`
	RefreshTokens  []RefreshToken  `json:"-" gorm:"foreignKey:UserID"`
	EmailVerified  bool            `json:"email_verified"`
	TotalPoints    int64           `gorm:"default:0" json:"total_points"`
}
