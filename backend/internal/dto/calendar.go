package dto

import "formation-hub/backend/internal/calendar"

// ── 日历模块 DTO ──

// CalendarEventsRequest 日历事件查询参数（日期为 YYYY-MM-DD，缺省为当月）
type CalendarEventsRequest struct {
	Start   string `form:"start"`
	End     string `form:"end"`
	ClassID string `form:"class_id" binding:"omitempty,uuid"`
}

// ExportICSRequest iCalendar 导出参数（缺省为过去 30 天至未来 180 天）
type ExportICSRequest struct {
	Start string `form:"start"`
	End   string `form:"end"`
}

// PrintRequest 打印导出参数
type PrintRequest struct {
	Type string `form:"type"` // week | month，未知值按 week
	Date string `form:"date"`
}

// OccurrenceResponse 课次信息
type OccurrenceResponse struct {
	ID              string              `json:"id"`
	CourseID        string              `json:"course_id,omitempty"`
	SlotID          string              `json:"slot_id,omitempty"`
	Title           string              `json:"title"`
	SubjectName     string              `json:"subject_name"`
	TeacherName     string              `json:"teacher_name"`
	ClassID         string              `json:"class_id"`
	ClassName       string              `json:"class_name"`
	ScheduledAt     string              `json:"scheduled_at"`
	EndAt           string              `json:"end_at"`
	DurationMinutes int                 `json:"duration_minutes"`
	Status          string              `json:"status"`
	Color           string              `json:"color"`
	Room            string              `json:"room"`
	MeetingURL      string              `json:"meeting_url,omitempty"`
	Attendance      *AttendanceResponse `json:"attendance,omitempty"`
}

// AssignmentDueResponse 作业截止信息
type AssignmentDueResponse struct {
	ID          string `json:"id"`
	ClassID     string `json:"class_id"`
	SubjectName string `json:"subject_name"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	CourseID    string `json:"course_id,omitempty"`
}

// AttendanceResponse 考勤记录
type AttendanceResponse struct {
	Status   string `json:"status"`
	MarkedAt string `json:"marked_at"`
}

// DayBucketResponse 单日分组
type DayBucketResponse struct {
	Date        string                  `json:"date"`
	DayName     string                  `json:"day_name"`
	IsToday     bool                    `json:"is_today"`
	Courses     []OccurrenceResponse    `json:"courses"`
	Assignments []AssignmentDueResponse `json:"assignments"`
	Entries     []calendar.Event        `json:"entries"`
}

// WeekViewResponse 周视图
type WeekViewResponse struct {
	WeekStart string              `json:"week_start"`
	WeekEnd   string              `json:"week_end"`
	PrevWeek  string              `json:"prev_week"`
	NextWeek  string              `json:"next_week"`
	Days      []DayBucketResponse `json:"days"`
}

// DayViewResponse 日视图
type DayViewResponse struct {
	PrevDay string            `json:"prev_day"`
	NextDay string            `json:"next_day"`
	Day     DayBucketResponse `json:"day"`
}

// MonthViewResponse 月视图
type MonthViewResponse struct {
	Month     string              `json:"month"` // YYYY-MM
	PrevMonth string              `json:"prev_month"`
	NextMonth string              `json:"next_month"`
	Days      []DayBucketResponse `json:"days"`
}

// CalendarStatsResponse 出勤统计
type CalendarStatsResponse struct {
	AttendanceRate float64 `json:"attendance_rate"` // 无记录时为 100
	Total          int64   `json:"total"`
	Present        int64   `json:"present"`
	Absent         int64   `json:"absent"`
	Late           int64   `json:"late"`
	Excused        int64   `json:"excused"`
	UpcomingCount  int     `json:"upcoming_count"` // 未来 7 天课次数
}
