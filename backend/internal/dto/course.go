package dto

// ── 课程模块 DTO ──

// IDParam 路径参数中的资源 ID
type IDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// UpdateCourseStatusRequest 课次状态变更请求
type UpdateCourseStatusRequest struct {
	Status  string `json:"status"  binding:"required,oneof=scheduled live completed cancelled"`
	Version *int   `json:"version" binding:"omitempty,min=1"` // 提供时需与当前版本一致
}

// CourseDetailResponse 课次详情
type CourseDetailResponse struct {
	OccurrenceResponse
	Version int `json:"version"`
}

// AssignmentDetailResponse 作业详情
type AssignmentDetailResponse struct {
	AssignmentDueResponse
	Description string `json:"description"`
	Color       string `json:"color"`
}
