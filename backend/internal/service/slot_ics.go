package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"formation-hub/backend/internal/calendar"
)

// ── ICS 周期时段解析 ────────────────────────────────────────
//
// 将外部排课系统导出的 iCalendar 转为每周固定时段：
//   - DTSTART/DTEND 在报表时区下确定星期与起止时刻
//   - 仅接受 RRULE FREQ=WEEKLY 的事件，其余计入跳过列表
//   - SUMMARY 作为科目名称，LOCATION 作为教室
//   - 同 科目+星期+时刻+教室 的事件合并为一个时段
// ─────────────────────────────────────────────────────────────

const icsMaxFileSize = 5 * 1024 * 1024 // 5MB

// parsedSlot ICS 解析中间结构
type parsedSlot struct {
	Summary   string
	DayOfWeek int
	Start     calendar.ClockTime
	End       calendar.ClockTime
	Room      string
}

var icsTextUnescaper = strings.NewReplacer(`\,`, ",", `\;`, ";", `\n`, " ", `\N`, " ", `\\`, `\`)

// ParseSlotICS 解析 ICS 内容，返回周期时段与被跳过事件的摘要
func ParseSlotICS(reader io.Reader, loc *time.Location) ([]parsedSlot, []string, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	var (
		slots   []parsedSlot
		skipped []string
		seen    = make(map[parsedSlot]bool)
	)
	for _, evt := range cal.Events() {
		slot, ok := parseSlotEvent(evt, loc)
		if !ok {
			skipped = append(skipped, eventSummary(evt))
			continue
		}
		if seen[slot] {
			continue
		}
		seen[slot] = true
		slots = append(slots, slot)
	}
	return slots, skipped, nil
}

// parseSlotEvent 解析单个 VEVENT
func parseSlotEvent(evt *ics.VEvent, loc *time.Location) (parsedSlot, bool) {
	summary := eventSummary(evt)
	if summary == "" {
		return parsedSlot{}, false
	}

	rruleProp := evt.GetProperty(ics.ComponentPropertyRrule)
	if rruleProp == nil {
		return parsedSlot{}, false
	}
	opt, err := rrule.StrToROption(rruleProp.Value)
	if err != nil || opt.Freq != rrule.WEEKLY {
		return parsedSlot{}, false
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return parsedSlot{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		return parsedSlot{}, false
	}
	if !calendar.SameDay(dtStart, dtEnd, loc) {
		return parsedSlot{}, false
	}

	slot := parsedSlot{
		Summary:   summary,
		DayOfWeek: calendar.ISOWeekday(dtStart.Weekday()),
		Start:     calendar.ClockTime(dtStart.Hour()*60 + dtStart.Minute()),
		End:       calendar.ClockTime(dtEnd.Hour()*60 + dtEnd.Minute()),
	}
	if p := evt.GetProperty(ics.ComponentPropertyLocation); p != nil {
		slot.Room = strings.TrimSpace(icsTextUnescaper.Replace(p.Value))
	}
	if slot.Start >= slot.End {
		return parsedSlot{}, false
	}
	return slot, true
}

func eventSummary(evt *ics.VEvent) string {
	p := evt.GetProperty(ics.ComponentPropertySummary)
	if p == nil {
		return ""
	}
	return strings.TrimSpace(icsTextUnescaper.Replace(p.Value))
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性，结果转换到 loc
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t.In(loc), nil
	}
	t, err := time.Parse("20060102T150405", val)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
	}
	src := loc
	if tzid != "" {
		if tzLoc, err := time.LoadLocation(tzid); err == nil {
			src = tzLoc
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, src).In(loc), nil
}
