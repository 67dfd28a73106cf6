package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ErrSlotInvalid 周期时段不合法（星期越界或开始不早于结束）
var ErrSlotInvalid = errors.New("周期时段无效")

// ClockTime 一天内的时刻，单位：自 0 点起的分钟数
type ClockTime int

// ParseClockTime 解析 HH:MM 或 HH:MM:SS（PostgreSQL TIME 列的文本形式）
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("无法解析时刻 %q", s)
}

// Hour 小时
func (c ClockTime) Hour() int { return int(c) / 60 }

// Minute 分钟
func (c ClockTime) Minute() int { return int(c) % 60 }

// String 格式化为 HH:MM
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Slot 每周固定时段（班级 × 科目）
type Slot struct {
	ID          string
	ClassID     string
	ClassName   string
	SubjectID   string
	SubjectName string
	TeacherName string
	DayOfWeek   int // 1=Monday … 7=Sunday
	Start       ClockTime
	End         ClockTime
	Room        string
}

// Validate 校验星期与起止时刻
func (s Slot) Validate() error {
	if s.DayOfWeek < 1 || s.DayOfWeek > 7 {
		return fmt.Errorf("%w: day_of_week=%d", ErrSlotInvalid, s.DayOfWeek)
	}
	if s.Start >= s.End {
		return fmt.Errorf("%w: %s-%s", ErrSlotInvalid, s.Start, s.End)
	}
	return nil
}

// DurationMinutes 时段时长
func (s Slot) DurationMinutes() int {
	return int(s.End - s.Start)
}

var isoWeekdays = [7]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// ExpandSlot 将周期时段在 loc 时区下展开为区间内的具体课次。
// 时刻按当地墙上时间计算，跨夏令时不漂移。
func ExpandSlot(s Slot, rng Range, loc *time.Location) ([]Occurrence, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	from := rng.Start.In(loc)
	dtStart := time.Date(from.Year(), from.Month(), from.Day(), s.Start.Hour(), s.Start.Minute(), 0, 0, loc)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{isoWeekdays[s.DayOfWeek-1]},
		Dtstart:   dtStart,
	})
	if err != nil {
		return nil, fmt.Errorf("构建 RRULE 失败: %w", err)
	}

	starts := rule.Between(rng.Start, rng.End, true)
	out := make([]Occurrence, 0, len(starts))
	for _, st := range starts {
		out = append(out, Occurrence{
			ID:              slotOccurrenceID(s.ID, st.In(loc)),
			SlotID:          s.ID,
			Title:           s.SubjectName,
			SubjectID:       s.SubjectID,
			SubjectName:     s.SubjectName,
			TeacherName:     s.TeacherName,
			ClassID:         s.ClassID,
			ClassName:       s.ClassName,
			ScheduledAt:     st,
			DurationMinutes: s.DurationMinutes(),
			Status:          StatusScheduled,
			Room:            s.Room,
		})
	}
	return out, nil
}

func slotOccurrenceID(slotID string, start time.Time) string {
	return fmt.Sprintf("slot-%s-%s", slotID, start.Format("20060102"))
}
