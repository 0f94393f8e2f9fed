package models

import "time"

// SeasonProgress is one user's participation in one season. The composite
// unique index is what makes "start season" safe under concurrent requests.
type SeasonProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_progress_user_season" json:"user_id"`
	SeasonID    uint       `gorm:"not null;uniqueIndex:idx_progress_user_season" json:"season_id"`
	Season      Season     `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}
