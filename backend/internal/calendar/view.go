package calendar

import "time"

var dayNames = map[string][7]string{
	"fr": {"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"},
	"en": {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
}

// DayName 本地化星期名称，未知语言回退到法语
func DayName(t time.Time, locale string) string {
	names, ok := dayNames[locale]
	if !ok {
		names = dayNames["fr"]
	}
	return names[ISOWeekday(t.Weekday())-1]
}

// DayBucket 单日分组
type DayBucket struct {
	Date        time.Time
	DayName     string
	Occurrences []Occurrence
	Assignments []AssignmentDue
	Entries     []Event // 课程在前、作业在后
}

// WeekView 周视图：恰好 7 天，周一开始
type WeekView struct {
	WeekStart time.Time
	Prev      time.Time
	Next      time.Time
	Days      []DayBucket
}

// AttendanceMark 学生在某课次的考勤记录
type AttendanceMark struct {
	Status   string
	MarkedAt time.Time
}

// DayView 日视图
type DayView struct {
	Day        DayBucket
	Prev       time.Time
	Next       time.Time
	Attendance map[string]AttendanceMark // 课次 ID → 考勤；缺失表示尚未点名
}

// MonthView 月视图：当月每一天一个分组
type MonthView struct {
	MonthStart time.Time
	Prev       time.Time
	Next       time.Time
	Days       []DayBucket
}

// Aggregator 按日分组课次与作业
type Aggregator struct {
	projector *Projector
	loc       *time.Location
	locale    string
}

// NewAggregator 创建分组器
func NewAggregator(projector *Projector, loc *time.Location, locale string) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{projector: projector, loc: loc, locale: locale}
}

// Buckets 从 from 所在日起连续 days 天，每天一个分组；无课的日子为空列表而非缺失。
// 输入需已按时间排序（Generator 的输出满足）。
func (a *Aggregator) Buckets(from time.Time, days int, occs []Occurrence, dues []AssignmentDue) []DayBucket {
	start := StartOfDay(from.In(a.loc))
	buckets := make([]DayBucket, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		buckets[i] = DayBucket{
			Date:        d,
			DayName:     DayName(d, a.locale),
			Occurrences: []Occurrence{},
			Assignments: []AssignmentDue{},
		}
		index[FormatDate(d)] = i
	}

	for _, o := range occs {
		if i, ok := index[FormatDate(o.ScheduledAt.In(a.loc))]; ok {
			buckets[i].Occurrences = append(buckets[i].Occurrences, o)
		}
	}
	for _, d := range dues {
		if i, ok := index[FormatDate(d.DueDate.In(a.loc))]; ok {
			buckets[i].Assignments = append(buckets[i].Assignments, d)
		}
	}
	for i := range buckets {
		buckets[i].Entries = a.projector.Project(buckets[i].Occurrences, buckets[i].Assignments)
	}
	return buckets
}

// WeekRange anchor 所在周（周一至周日）的闭区间
func (a *Aggregator) WeekRange(anchor time.Time) Range {
	return DaysRange(WeekStart(anchor.In(a.loc)), 7)
}

// Week 周视图
func (a *Aggregator) Week(anchor time.Time, occs []Occurrence, dues []AssignmentDue) WeekView {
	ws := WeekStart(anchor.In(a.loc))
	return WeekView{
		WeekStart: ws,
		Prev:      PrevWeek(ws),
		Next:      NextWeek(ws),
		Days:      a.Buckets(ws, 7, occs, dues),
	}
}

// DayRange anchor 当天闭区间
func (a *Aggregator) DayRange(anchor time.Time) Range {
	return DaysRange(anchor.In(a.loc), 1)
}

// Day 日视图，附带考勤记录（可为空）
func (a *Aggregator) Day(anchor time.Time, occs []Occurrence, dues []AssignmentDue, marks map[string]AttendanceMark) DayView {
	day := StartOfDay(anchor.In(a.loc))
	bucket := a.Buckets(day, 1, occs, dues)[0]

	attendance := make(map[string]AttendanceMark)
	for _, o := range bucket.Occurrences {
		if m, ok := marks[o.ID]; ok {
			attendance[o.ID] = m
		}
	}
	return DayView{
		Day:        bucket,
		Prev:       PrevDay(day),
		Next:       NextDay(day),
		Attendance: attendance,
	}
}

// MonthRange anchor 所在月闭区间
func (a *Aggregator) MonthRange(anchor time.Time) Range {
	ms := MonthStart(anchor.In(a.loc))
	return DaysRange(ms, daysInMonth(ms))
}

// Month 月视图
func (a *Aggregator) Month(anchor time.Time, occs []Occurrence, dues []AssignmentDue) MonthView {
	ms := MonthStart(anchor.In(a.loc))
	return MonthView{
		MonthStart: ms,
		Prev:       PrevMonth(ms),
		Next:       NextMonth(ms),
		Days:       a.Buckets(ms, daysInMonth(ms), occs, dues),
	}
}

func daysInMonth(monthStart time.Time) int {
	return monthStart.AddDate(0, 1, -1).Day()
}
