package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"formation-hub/backend/config"
	"formation-hub/backend/internal/calendar"
	"formation-hub/backend/internal/model"
	"formation-hub/backend/internal/repository"
	"formation-hub/backend/pkg/clock"
)

// calendarTools 按配置组装的日历纯计算组件
type calendarTools struct {
	loc       *time.Location
	locale    string
	clock     clock.Clock
	generator *calendar.Generator
	projector *calendar.Projector
	agg       *calendar.Aggregator
	ical      *calendar.ICalSerializer
}

func newCalendarTools(cfg *config.CalendarConfig, clk clock.Clock) (*calendarTools, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("加载时区 %q 失败: %w", cfg.Timezone, err)
	}
	if clk == nil {
		clk = clock.Real{}
	}
	projector := calendar.NewProjector(calendar.Links{
		CoursePath:     cfg.Links.CoursePath,
		AssignmentPath: cfg.Links.AssignmentPath,
		DayViewPath:    cfg.Links.DayViewPath,
	}, loc)
	return &calendarTools{
		loc:       loc,
		locale:    cfg.Locale,
		clock:     clk,
		generator: calendar.NewGenerator(loc),
		projector: projector,
		agg:       calendar.NewAggregator(projector, loc, cfg.Locale),
		ical: calendar.NewICalSerializer(calendar.ICalOptions{
			ProductID:    cfg.ProductID,
			CalendarName: cfg.CalendarName,
			Timezone:     cfg.Timezone,
			UIDDomain:    cfg.UIDDomain,
		}, clk),
	}, nil
}

// now 报表时区下的当前时刻
func (t *calendarTools) now() time.Time {
	return t.clock.Now().In(t.loc)
}

// occurrenceLoader 单次请求的数据获取：一次查询，之后全部为纯计算
type occurrenceLoader struct {
	repo   *repository.Repository
	scopes ScopeResolver
	tools  *calendarTools
	logger *zap.Logger
}

// scope 解析学生选课范围，并按 classID 收窄（可为空）
func (l *occurrenceLoader) scope(ctx context.Context, studentID, classID string) (calendar.Scope, error) {
	scope, err := l.scopes.Resolve(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return scope.Narrow(classID)
}

// load 读取范围内的课次、周期时段与作业，交由 Generator 合并过滤
func (l *occurrenceLoader) load(ctx context.Context, scope calendar.Scope, rng calendar.Range) ([]calendar.Occurrence, []calendar.AssignmentDue, error) {
	classIDs := scope.ClassIDs()
	if len(classIDs) == 0 {
		return []calendar.Occurrence{}, []calendar.AssignmentDue{}, nil
	}

	courses, err := l.repo.Course.ListByClassesAndRange(ctx, classIDs, rng.Start, rng.End)
	if err != nil {
		l.logger.Error("查询课次失败", zap.Error(err))
		return nil, nil, err
	}
	slotRows, err := l.repo.RecurringSlot.ListByClasses(ctx, classIDs)
	if err != nil {
		l.logger.Error("查询周期时段失败", zap.Error(err))
		return nil, nil, err
	}
	assignments, err := l.repo.Assignment.ListByClassesAndRange(ctx, classIDs, rng.Start, rng.End)
	if err != nil {
		l.logger.Error("查询作业失败", zap.Error(err))
		return nil, nil, err
	}

	occs := make([]calendar.Occurrence, 0, len(courses))
	for i := range courses {
		occs = append(occs, courseToOccurrence(&courses[i]))
	}
	slots := make([]calendar.Slot, 0, len(slotRows))
	for i := range slotRows {
		s, err := slotToCalendar(&slotRows[i])
		if err != nil {
			l.logger.Warn("周期时段时刻无法解析，已跳过",
				zap.String("slot_id", slotRows[i].RecurringSlotID), zap.Error(err))
			continue
		}
		slots = append(slots, s)
	}
	dues := make([]calendar.AssignmentDue, 0, len(assignments))
	for i := range assignments {
		dues = append(dues, assignmentToDue(&assignments[i]))
	}

	merged, skipped := l.tools.generator.Occurrences(scope, rng, occs, slots)
	if len(skipped) > 0 {
		l.logger.Warn("存在无效周期时段，已跳过", zap.Strings("slot_ids", skipped))
	}
	return merged, l.tools.generator.Assignments(scope, rng, dues), nil
}

// attendanceMarks 学生在给定课次上的考勤记录；时段展开的课次没有考勤
func (l *occurrenceLoader) attendanceMarks(ctx context.Context, studentID string, occs []calendar.Occurrence) (map[string]calendar.AttendanceMark, error) {
	courseIDs := make([]string, 0, len(occs))
	for _, o := range occs {
		if o.CourseID != "" {
			courseIDs = append(courseIDs, o.CourseID)
		}
	}
	records, err := l.repo.Attendance.ListByStudentAndCourses(ctx, studentID, courseIDs)
	if err != nil {
		l.logger.Error("查询考勤失败", zap.Error(err))
		return nil, err
	}
	marks := make(map[string]calendar.AttendanceMark, len(records))
	for _, r := range records {
		marks[r.CourseID] = calendar.AttendanceMark{Status: r.Status, MarkedAt: r.MarkedAt}
	}
	return marks, nil
}

// ── 模型转换 ──

func courseToOccurrence(c *model.Course) calendar.Occurrence {
	o := calendar.Occurrence{
		ID:              c.CourseID,
		CourseID:        c.CourseID,
		Title:           c.Title,
		ClassID:         c.ClassID,
		ScheduledAt:     c.ScheduledAt,
		DurationMinutes: c.DurationMinutes,
		Status:          calendar.ParseStatus(c.Status),
		Room:            c.Room,
		MeetingURL:      c.MeetingURL,
	}
	if c.SubjectID != nil {
		o.SubjectID = *c.SubjectID
	}
	if c.Subject != nil {
		o.SubjectName = c.Subject.Name
	}
	if c.Teacher != nil {
		o.TeacherName = c.Teacher.Name
	}
	if c.Class != nil {
		o.ClassName = c.Class.Name
	}
	return o
}

func slotToCalendar(s *model.RecurringSlot) (calendar.Slot, error) {
	start, err := calendar.ParseClockTime(s.StartTime)
	if err != nil {
		return calendar.Slot{}, err
	}
	end, err := calendar.ParseClockTime(s.EndTime)
	if err != nil {
		return calendar.Slot{}, err
	}
	out := calendar.Slot{
		ID:        s.RecurringSlotID,
		ClassID:   s.ClassID,
		SubjectID: s.SubjectID,
		DayOfWeek: s.DayOfWeek,
		Start:     start,
		End:       end,
		Room:      s.Room,
	}
	if s.Class != nil {
		out.ClassName = s.Class.Name
	}
	if s.Subject != nil {
		out.SubjectName = s.Subject.Name
	}
	if s.Teacher != nil {
		out.TeacherName = s.Teacher.Name
	}
	return out, nil
}

func assignmentToDue(a *model.Assignment) calendar.AssignmentDue {
	d := calendar.AssignmentDue{
		AssignmentID: a.AssignmentID,
		ClassID:      a.ClassID,
		Title:        a.Title,
		DueDate:      a.DueDate,
	}
	if a.Subject != nil {
		d.SubjectName = a.Subject.Name
	}
	if a.CourseID != nil {
		d.CourseID = *a.CourseID
	}
	return d
}

// isNotFound gorm 未找到记录
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
