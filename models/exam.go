package models

import (
	"time"

	"gorm.io/gorm"
)

type Exam struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"not null"`
	Skill     string         `json:"skill" gorm:"not null"`
	CreatedBy uint           `json:"created_by" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Creator       User       `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	AssignedUsers []User     `json:"assigned_users,omitempty" gorm:"many2many:exam_assignments"`
	Questions     []Question `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
}
