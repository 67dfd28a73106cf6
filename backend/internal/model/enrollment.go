package model

import "time"

// 选课状态
const (
	EnrollmentActive    = "active"
	EnrollmentWithdrawn = "withdrawn"
)

// ClassEnrollment 学生选课 — 对应 class_enrollments
type ClassEnrollment struct {
	EnrollmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	ClassID      string    `gorm:"type:uuid;not null"                             json:"class_id"`
	StudentID    string    `gorm:"type:uuid;not null"                             json:"student_id"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	EnrolledAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"enrolled_at"`
	BaseModel
}

// TableName 指定表名
func (ClassEnrollment) TableName() string { return "class_enrollments" }
