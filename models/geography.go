package models

import "time"

// Reference hierarchy used to scope leaderboards: country -> division -> district.
// Seeded once, read-only afterwards.

type Country struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"not null;unique" json:"name"`
	NameBn    string     `json:"name_bn"`
	Code      string     `gorm:"type:varchar(2)" json:"code"`
	CreatedAt time.Time  `json:"created_at"`
	Divisions []Division `json:"divisions,omitempty" gorm:"foreignKey:CountryID"`
}

type Division struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	NameBn    string     `json:"name_bn"`
	CountryID uint       `gorm:"not null;index" json:"country_id"`
	CreatedAt time.Time  `json:"created_at"`
	Districts []District `json:"districts,omitempty" gorm:"foreignKey:DivisionID"`
}

type District struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	NameBn     string    `json:"name_bn"`
	DivisionID uint      `gorm:"not null;index" json:"division_id"`
	CreatedAt  time.Time `json:"created_at"`
}
