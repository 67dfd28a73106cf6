package calendar

import (
	"sort"
	"time"
)

// Occurrence 一次具体的、带日期的课次
type Occurrence struct {
	ID              string // 课程 ID；周期时段展开的课次为 slot-<slot_id>-<YYYYMMDD>
	CourseID        string // 仅课程记录来源时非空
	SlotID          string // 仅周期时段来源时非空
	Title           string
	SubjectID       string
	SubjectName     string
	TeacherName     string
	ClassID         string
	ClassName       string
	ScheduledAt     time.Time
	DurationMinutes int
	Status          Status
	Room            string
	MeetingURL      string
}

// EndAt 结束时刻 = ScheduledAt + DurationMinutes
func (o Occurrence) EndAt() time.Time {
	return o.ScheduledAt.Add(time.Duration(o.DurationMinutes) * time.Minute)
}

// AssignmentDue 作业截止时间点
type AssignmentDue struct {
	AssignmentID string
	ClassID      string
	SubjectName  string
	Title        string
	DueDate      time.Time
	CourseID     string // 关联课程，可为空
}

// Generator 课次生成器：按选课范围与日期区间产出有序课次
type Generator struct {
	loc *time.Location
}

// NewGenerator 创建生成器，loc 为报表时区
func NewGenerator(loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{loc: loc}
}

// Location 报表时区
func (g *Generator) Location() *time.Location { return g.loc }

// Occurrences 合并课程记录与周期时段展开结果。
//
//   - 每条输入都重新按 scope 过滤，不依赖上游查询已过滤
//   - 仅保留 ScheduledAt ∈ [rng.Start, rng.End] 的课次
//   - 同一班级、科目、开始时刻上课程记录优先于周期时段；
//     未关联科目的课程记录覆盖同一班级、同一时刻的任意时段
//   - 按 ScheduledAt 升序，相同时刻按 ID 升序
//
// 返回被跳过的非法时段 ID。
func (g *Generator) Occurrences(scope Scope, rng Range, courses []Occurrence, slots []Slot) ([]Occurrence, []string) {
	out := make([]Occurrence, 0, len(courses))
	taken := make(map[occurrenceKey]bool, len(courses))

	for _, c := range courses {
		if !scope.Contains(c.ClassID) || !rng.Contains(c.ScheduledAt) {
			continue
		}
		out = append(out, c)
		taken[keyOf(c)] = true
	}

	var skipped []string
	for _, s := range slots {
		if !scope.Contains(s.ClassID) {
			continue
		}
		expanded, err := ExpandSlot(s, rng, g.loc)
		if err != nil {
			skipped = append(skipped, s.ID)
			continue
		}
		for _, o := range expanded {
			if taken[keyOf(o)] || taken[occurrenceKey{classID: o.ClassID, start: o.ScheduledAt.Unix()}] {
				continue
			}
			out = append(out, o)
		}
	}

	SortOccurrences(out)
	return out, skipped
}

// Assignments 按范围与区间过滤作业，按截止时间升序（相同时按 ID）
func (g *Generator) Assignments(scope Scope, rng Range, dues []AssignmentDue) []AssignmentDue {
	out := make([]AssignmentDue, 0, len(dues))
	for _, d := range dues {
		if scope.Contains(d.ClassID) && rng.Contains(d.DueDate) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].AssignmentID < out[j].AssignmentID
	})
	return out
}

// SortOccurrences 按 ScheduledAt、ID 排序
func SortOccurrences(occs []Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		if !occs[i].ScheduledAt.Equal(occs[j].ScheduledAt) {
			return occs[i].ScheduledAt.Before(occs[j].ScheduledAt)
		}
		return occs[i].ID < occs[j].ID
	})
}

type occurrenceKey struct {
	classID   string
	subjectID string
	start     int64
}

func keyOf(o Occurrence) occurrenceKey {
	return occurrenceKey{classID: o.ClassID, subjectID: o.SubjectID, start: o.ScheduledAt.Unix()}
}
