package models

import "time"

// QuestionAttempt is immutable once created; the unique index on
// (user_id, question_id) enforces at most one attempt per user per question.
type QuestionAttempt struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_attempt_user_question" json:"user_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_attempt_user_question" json:"question_id"`
	Question   Question  `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Answer     string    `gorm:"size:500;not null" json:"answer"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
	Points     int       `gorm:"not null;default:0" json:"points"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}
