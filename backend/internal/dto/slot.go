package dto

// ── 周期时段模块 DTO ──

// CreateSlotRequest 创建周期时段请求
type CreateSlotRequest struct {
	ClassID   string  `json:"class_id"    binding:"required,uuid"`
	SubjectID string  `json:"subject_id"  binding:"required,uuid"`
	TeacherID *string `json:"teacher_id"  binding:"omitempty,uuid"`
	DayOfWeek int     `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime string  `json:"start_time"  binding:"required,hhmm"` // "08:10"
	EndTime   string  `json:"end_time"    binding:"required,hhmm"` // "10:05"
	Room      string  `json:"room"        binding:"max=50"`
}

// SlotListRequest 时段列表查询参数
type SlotListRequest struct {
	ClassID string `form:"class_id" binding:"required,uuid"`
}

// ImportSlotsRequest ICS 导入表单字段（文件通过 multipart "file" 上传）
type ImportSlotsRequest struct {
	ClassID string `form:"class_id" binding:"required,uuid"`
}

// SlotResponse 周期时段信息
type SlotResponse struct {
	ID          string `json:"id"`
	ClassID     string `json:"class_id"`
	ClassName   string `json:"class_name"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	TeacherID   string `json:"teacher_id,omitempty"`
	TeacherName string `json:"teacher_name"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Room        string `json:"room"`
}

// ImportSlotsResponse ICS 导入结果
type ImportSlotsResponse struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"` // 未匹配科目或无法解析的事件摘要
}
