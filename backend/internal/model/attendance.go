package model

import "time"

// 考勤状态
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// Attendance 考勤记录 — 对应 attendances
type Attendance struct {
	AttendanceID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	CourseID     string    `gorm:"type:uuid;not null"                             json:"course_id"`
	StudentID    string    `gorm:"type:uuid;not null"                             json:"student_id"`
	Status       string    `gorm:"type:varchar(20);not null"                      json:"status"`
	MarkedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"marked_at"`
	BaseModel
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }
