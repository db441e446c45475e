package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	ExamID        uint           `json:"exam_id" gorm:"not null;index"`
	Text          string         `json:"question" gorm:"not null"`
	Options       pq.StringArray `json:"options" gorm:"type:text[];not null"` // always exactly 4
	CorrectAnswer int            `json:"correct_answer" gorm:"not null"`      // 0-3
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Exam Exam `json:"exam,omitempty"`
}
