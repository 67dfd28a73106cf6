package calendar

import (
	"strings"
	"time"
)

// Status 课程状态（封闭枚举）
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// 显示颜色
const (
	ColorBlue  = "#3b82f6"
	ColorGreen = "#22c55e"
	ColorGray  = "#6b7280"
	ColorRed   = "#ef4444"

	// ColorDefault 未知状态回退为 scheduled 的颜色
	ColorDefault    = ColorBlue
	ColorAssignment = ColorRed
)

var statusColors = map[Status]string{
	StatusScheduled: ColorBlue,
	StatusLive:      ColorGreen,
	StatusCompleted: ColorGray,
	StatusCancelled: ColorRed,
}

// Statuses 返回全部已定义状态
func Statuses() []Status {
	return []Status{StatusScheduled, StatusLive, StatusCompleted, StatusCancelled}
}

// ParseStatus 解析状态字符串（忽略大小写与首尾空白）
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

// Valid 是否为已定义状态
func (s Status) Valid() bool {
	_, ok := statusColors[s]
	return ok
}

// Color 状态 → 颜色，任意未定义值返回 ColorDefault
func (s Status) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return ColorDefault
}

// Terminal 终态不可再迁移
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ICalToken iCalendar STATUS 字段取值
func (s Status) ICalToken() string {
	return strings.ToUpper(string(s))
}

var allowedTransitions = map[Status][]Status{
	StatusScheduled: {StatusLive, StatusCompleted, StatusCancelled},
	StatusLive:      {StatusCompleted, StatusCancelled},
}

// CanTransition 判断状态迁移是否合法
func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StatusAt 按时间推进状态：开始后进入 live，结束后进入 completed。
// 终态与未定义状态原样返回。
func StatusAt(current Status, start time.Time, durationMinutes int, now time.Time) Status {
	if current != StatusScheduled && current != StatusLive {
		return current
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	switch {
	case !now.Before(end):
		return StatusCompleted
	case !now.Before(start):
		return StatusLive
	default:
		return current
	}
}
