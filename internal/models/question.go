package models

import "gorm.io/datatypes"

type Question struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	SeasonID    uint              `gorm:"not null;index" json:"season_id"`
	Content     string            `gorm:"type:text;not null" json:"content"`
	Options     datatypes.JSON    `json:"options,omitempty"`
	Answer      string            `gorm:"size:500;not null" json:"answer"`
	Explanation string            `gorm:"type:text" json:"explanation"`
	OrderIndex  int               `gorm:"not null;default:0;index" json:"order_index"`
	Attempts    []QuestionAttempt `gorm:"foreignKey:QuestionID" json:"attempts,omitempty"`
}
