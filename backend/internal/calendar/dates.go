package calendar

import (
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// StartOfDay 当天 0 点（保留时区）
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay 当天最后一纳秒
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// WeekStart 所在周的周一 0 点
func WeekStart(t time.Time) time.Time {
	d := StartOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 … Sunday=6
	return d.AddDate(0, 0, -offset)
}

// MonthStart 所在月 1 日 0 点
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// ISOWeekday time.Weekday (0=Sunday) → ISO 8601 (1=Monday … 7=Sunday)
func ISOWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// SameDay 两个时刻在 loc 时区下是否为同一天
func SameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ParseDate 宽松解析 YYYY-MM-DD，失败时返回 fallback 所在日 0 点
func ParseDate(s string, loc *time.Location, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s != "" {
		if d, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
			return d
		}
	}
	return StartOfDay(fallback.In(loc))
}

// ParseMonth 宽松解析 YYYY-MM 或 YYYY-MM-DD，返回所在月 1 日；失败回退到 fallback 所在月
func ParseMonth(s string, loc *time.Location, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s != "" {
		if d, err := time.ParseInLocation(monthLayout, s, loc); err == nil {
			return d
		}
		if d, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
			return MonthStart(d)
		}
	}
	return MonthStart(fallback.In(loc))
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ── 导航 ──

// PrevWeek 上一周锚点
func PrevWeek(anchor time.Time) time.Time { return anchor.AddDate(0, 0, -7) }

// NextWeek 下一周锚点
func NextWeek(anchor time.Time) time.Time { return anchor.AddDate(0, 0, 7) }

// PrevDay 前一天
func PrevDay(anchor time.Time) time.Time { return anchor.AddDate(0, 0, -1) }

// NextDay 后一天
func NextDay(anchor time.Time) time.Time { return anchor.AddDate(0, 0, 1) }

// PrevMonth 上月 1 日
func PrevMonth(anchor time.Time) time.Time { return MonthStart(anchor).AddDate(0, -1, 0) }

// NextMonth 下月 1 日
func NextMonth(anchor time.Time) time.Time { return MonthStart(anchor).AddDate(0, 1, 0) }
