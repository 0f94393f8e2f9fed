package models

import "time"

type Season struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	StartDate time.Time  `gorm:"not null;index" json:"start_date"`
	EndDate   time.Time  `gorm:"not null;index" json:"end_date"`
	Questions []Question `gorm:"foreignKey:SeasonID" json:"questions,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
