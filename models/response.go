package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer is one submitted answer inside a Response's answers JSON.
type Answer struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedOption int `json:"selectedOption"`
}

type Response struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_responses_user_exam"`
	ExamID      uint           `json:"exam_id" gorm:"not null;uniqueIndex:idx_responses_user_exam"`
	Answers     datatypes.JSON `json:"answers"`
	Score       *int           `json:"score"`        // null until evaluated
	TotalMarks  *int           `json:"total_marks"`  // null until evaluated
	EvaluatedAt *time.Time     `json:"evaluated_at"` // null until evaluated
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User User `json:"user,omitempty"`
	Exam Exam `json:"exam,omitempty"`
}
