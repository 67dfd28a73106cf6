package model

import "time"

// Assignment 作业 — 对应 assignments
type Assignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	ClassID      string    `gorm:"type:uuid;not null"                             json:"class_id"`
	SubjectID    *string   `gorm:"type:uuid"                                      json:"subject_id,omitempty"`
	CourseID     *string   `gorm:"type:uuid"                                      json:"course_id,omitempty"`
	Title        string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Description  string    `gorm:"type:text;not null;default:''"                  json:"description"`
	DueDate      time.Time `gorm:"not null"                                       json:"due_date"`
	SoftDeleteModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }
