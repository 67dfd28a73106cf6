package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"formation-hub/backend/internal/calendar"
	"formation-hub/backend/internal/dto"
	"formation-hub/backend/internal/model"
)

// ── 日历模块业务错误 ──

var (
	ErrCalendarInvalidRange   = calendar.ErrInvalidRange
	ErrCalendarScopeViolation = calendar.ErrScopeViolation
)

const (
	exportPastDays   = 30
	exportFutureDays = 180
	upcomingDays     = 7
)

// CalendarService 日历视图与导出接口。所有操作均以学生选课范围为界。
type CalendarService interface {
	// ListEvents 区间内的日历事件（缺省为当月），可按班级收窄
	ListEvents(ctx context.Context, studentID string, req *dto.CalendarEventsRequest) ([]calendar.Event, error)
	// GetWeek 周视图，week 为周内任一天（YYYY-MM-DD），缺省为本周
	GetWeek(ctx context.Context, studentID, week string) (*dto.WeekViewResponse, error)
	// GetDay 日视图，附带考勤
	GetDay(ctx context.Context, studentID, date string) (*dto.DayViewResponse, error)
	// GetMonth 月视图，month 为 YYYY-MM 或月内任一天
	GetMonth(ctx context.Context, studentID, month string) (*dto.MonthViewResponse, error)
	// ExportICS 导出 iCalendar 文本
	ExportICS(ctx context.Context, studentID string, req *dto.ExportICSRequest) ([]byte, error)
	// GetStats 出勤率与近期课次统计
	GetStats(ctx context.Context, studentID string) (*dto.CalendarStatsResponse, error)
}

type calendarService struct {
	loader *occurrenceLoader
	tools  *calendarTools
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(loader *occurrenceLoader, logger *zap.Logger) CalendarService {
	return &calendarService{loader: loader, tools: loader.tools, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ListEvents
// ═══════════════════════════════════════════════════════════

func (s *calendarService) ListEvents(ctx context.Context, studentID string, req *dto.CalendarEventsRequest) ([]calendar.Event, error) {
	loc := s.tools.loc
	now := s.tools.now()

	start := calendar.ParseDate(req.Start, loc, calendar.MonthStart(now))
	end := calendar.ParseDate(req.End, loc, calendar.PrevDay(calendar.NextMonth(start)))
	rng, err := calendar.NewRange(start, calendar.EndOfDay(end))
	if err != nil {
		return nil, ErrCalendarInvalidRange
	}

	scope, err := s.loader.scope(ctx, studentID, req.ClassID)
	if err != nil {
		return nil, err
	}
	occs, dues, err := s.loader.load(ctx, scope, rng)
	if err != nil {
		return nil, err
	}
	return s.tools.projector.Project(occs, dues), nil
}

// ═══════════════════════════════════════════════════════════
// 视图
// ═══════════════════════════════════════════════════════════

func (s *calendarService) GetWeek(ctx context.Context, studentID, week string) (*dto.WeekViewResponse, error) {
	now := s.tools.now()
	anchor := calendar.ParseDate(week, s.tools.loc, now)
	rng := s.tools.agg.WeekRange(anchor)

	occs, dues, err := s.loadScoped(ctx, studentID, rng)
	if err != nil {
		return nil, err
	}

	view := s.tools.agg.Week(anchor, occs, dues)
	return &dto.WeekViewResponse{
		WeekStart: calendar.FormatDate(view.WeekStart),
		WeekEnd:   calendar.FormatDate(rng.End),
		PrevWeek:  calendar.FormatDate(view.Prev),
		NextWeek:  calendar.FormatDate(view.Next),
		Days:      toDayBucketResponses(view.Days, now, s.tools.loc),
	}, nil
}

func (s *calendarService) GetDay(ctx context.Context, studentID, date string) (*dto.DayViewResponse, error) {
	now := s.tools.now()
	anchor := calendar.ParseDate(date, s.tools.loc, now)
	rng := s.tools.agg.DayRange(anchor)

	occs, dues, err := s.loadScoped(ctx, studentID, rng)
	if err != nil {
		return nil, err
	}
	marks, err := s.loader.attendanceMarks(ctx, studentID, occs)
	if err != nil {
		return nil, err
	}

	view := s.tools.agg.Day(anchor, occs, dues, marks)
	return &dto.DayViewResponse{
		PrevDay: calendar.FormatDate(view.Prev),
		NextDay: calendar.FormatDate(view.Next),
		Day:     toDayBucketResponse(view.Day, now, view.Attendance, s.tools.loc),
	}, nil
}

func (s *calendarService) GetMonth(ctx context.Context, studentID, month string) (*dto.MonthViewResponse, error) {
	now := s.tools.now()
	anchor := calendar.ParseMonth(month, s.tools.loc, now)
	rng := s.tools.agg.MonthRange(anchor)

	occs, dues, err := s.loadScoped(ctx, studentID, rng)
	if err != nil {
		return nil, err
	}

	view := s.tools.agg.Month(anchor, occs, dues)
	return &dto.MonthViewResponse{
		Month:     view.MonthStart.Format("2006-01"),
		PrevMonth: view.Prev.Format("2006-01"),
		NextMonth: view.Next.Format("2006-01"),
		Days:      toDayBucketResponses(view.Days, now, s.tools.loc),
	}, nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS
// ═══════════════════════════════════════════════════════════

func (s *calendarService) ExportICS(ctx context.Context, studentID string, req *dto.ExportICSRequest) ([]byte, error) {
	loc := s.tools.loc
	today := calendar.StartOfDay(s.tools.now())

	start := calendar.ParseDate(req.Start, loc, today.AddDate(0, 0, -exportPastDays))
	end := calendar.ParseDate(req.End, loc, today.AddDate(0, 0, exportFutureDays))
	rng, err := calendar.NewRange(start, calendar.EndOfDay(end))
	if err != nil {
		return nil, ErrCalendarInvalidRange
	}

	scope, err := s.loader.scopes.ResolveFresh(ctx, studentID)
	if err != nil {
		return nil, err
	}
	occs, _, err := s.loader.load(ctx, scope, rng)
	if err != nil {
		return nil, err
	}

	displayName := ""
	if user, err := s.loader.repo.User.GetByID(ctx, studentID); err == nil {
		displayName = user.Name
	} else if !isNotFound(err) {
		s.logger.Warn("查询用户失败，日历名称省略姓名", zap.String("user_id", studentID), zap.Error(err))
	}

	return []byte(s.tools.ical.Serialize(occs, displayName)), nil
}

// ═══════════════════════════════════════════════════════════
// GetStats
// ═══════════════════════════════════════════════════════════

func (s *calendarService) GetStats(ctx context.Context, studentID string) (*dto.CalendarStatsResponse, error) {
	counts, err := s.loader.repo.Attendance.CountByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("统计考勤失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	resp := &dto.CalendarStatsResponse{
		Present: counts[model.AttendancePresent],
		Absent:  counts[model.AttendanceAbsent],
		Late:    counts[model.AttendanceLate],
		Excused: counts[model.AttendanceExcused],
	}
	for _, n := range counts {
		resp.Total += n
	}
	resp.AttendanceRate = AttendanceRate(resp.Present, resp.Total)

	now := s.tools.now()
	rng := calendar.Range{Start: now, End: now.Add(upcomingDays * 24 * time.Hour)}
	occs, _, err := s.loadScoped(ctx, studentID, rng)
	if err != nil {
		return nil, err
	}
	for _, o := range occs {
		if o.Status != calendar.StatusCancelled {
			resp.UpcomingCount++
		}
	}
	return resp, nil
}

// AttendanceRate 出勤率（百分比，保留一位小数）。没有任何记录时视为 100。
func AttendanceRate(present, total int64) float64 {
	if total == 0 {
		return 100
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}

func (s *calendarService) loadScoped(ctx context.Context, studentID string, rng calendar.Range) ([]calendar.Occurrence, []calendar.AssignmentDue, error) {
	scope, err := s.loader.scope(ctx, studentID, "")
	if err != nil {
		return nil, nil, err
	}
	return s.loader.load(ctx, scope, rng)
}
