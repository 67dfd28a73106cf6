package calendar

import (
	"fmt"

	ics "github.com/arran4/golang-ical"

	"formation-hub/backend/pkg/clock"
)

// ICalOptions iCalendar 导出的固定头部信息
type ICalOptions struct {
	ProductID    string // PRODID
	CalendarName string // X-WR-CALNAME 前缀，后接订阅者名称
	Timezone     string // X-WR-TIMEZONE
	UIDDomain    string // UID 域名后缀
}

// ICalSerializer 将课次序列化为 RFC 5545 文本
type ICalSerializer struct {
	opts  ICalOptions
	clock clock.Clock
}

// NewICalSerializer 创建序列化器；DTSTAMP 取自 clk
func NewICalSerializer(opts ICalOptions, clk clock.Clock) *ICalSerializer {
	if clk == nil {
		clk = clock.Real{}
	}
	return &ICalSerializer{opts: opts, clock: clk}
}

// CourseUID 由课次 ID 派生的稳定 UID，重复导出时客户端识别为更新而非新增
func CourseUID(occurrenceID, domain string) string {
	return fmt.Sprintf("course-%s@%s", occurrenceID, domain)
}

// Serialize 输出完整 VCALENDAR 文本（CRLF 换行，时间为 UTC 基本格式）。
// 缺失的科目、教师等字段输出为空字符串，不影响其余事件。
func (s *ICalSerializer) Serialize(occs []Occurrence, displayName string) string {
	cal := ics.NewCalendar()
	cal.SetProductId(s.opts.ProductID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(calendarName(s.opts.CalendarName, displayName))
	cal.SetXWRTimezone(s.opts.Timezone)

	stamp := s.clock.Now()
	for _, o := range occs {
		ev := cal.AddEvent(CourseUID(o.ID, s.opts.UIDDomain))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(o.ScheduledAt)
		ev.SetEndAt(o.EndAt())
		ev.SetSummary(o.SubjectName)
		ev.SetDescription(joinNonEmpty(" - ", o.Title, o.TeacherName))
		ev.SetLocation(o.Room)
		ev.SetStatus(ics.ObjectStatus(o.Status.ICalToken()))
	}

	return cal.Serialize(ics.WithNewLineWindows)
}

func calendarName(prefix, displayName string) string {
	if displayName == "" {
		return prefix
	}
	if prefix == "" {
		return displayName
	}
	return prefix + " - " + displayName
}
