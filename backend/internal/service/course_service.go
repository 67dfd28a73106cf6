package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"formation-hub/backend/internal/calendar"
	"formation-hub/backend/internal/dto"
	"formation-hub/backend/pkg/jwt"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound          = errors.New("课次不存在")
	ErrAssignmentNotFound      = errors.New("作业不存在")
	ErrCourseInvalidTransition = errors.New("课次状态不允许此变更")
	ErrCourseForbidden         = errors.New("无权修改该课次")
	ErrCourseVersionMismatch   = errors.New("课次已被修改，请刷新后重试")
)

// CourseService 课次与作业详情、状态流转接口
type CourseService interface {
	// GetCourse 课次详情；不在学生选课范围内时与不存在同样处理
	GetCourse(ctx context.Context, studentID, courseID string) (*dto.CourseDetailResponse, error)
	// GetAssignment 作业详情；范围规则同上
	GetAssignment(ctx context.Context, studentID, assignmentID string) (*dto.AssignmentDetailResponse, error)
	// UpdateStatus 状态流转（教师仅限本人课次，管理员不限）
	UpdateStatus(ctx context.Context, courseID string, req *dto.UpdateCourseStatusRequest, callerID, callerRole string) (*dto.CourseDetailResponse, error)
}

type courseService struct {
	loader *occurrenceLoader
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(loader *occurrenceLoader, logger *zap.Logger) CourseService {
	return &courseService{loader: loader, logger: logger}
}

func (s *courseService) GetCourse(ctx context.Context, studentID, courseID string) (*dto.CourseDetailResponse, error) {
	course, err := s.loader.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课次失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	scope, err := s.loader.scopes.ResolveFresh(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !scope.Contains(course.ClassID) {
		return nil, ErrCourseNotFound
	}

	occ := courseToOccurrence(course)
	resp := &dto.CourseDetailResponse{
		OccurrenceResponse: toOccurrenceResponse(occ, s.loader.tools.loc),
		Version:            course.Version,
	}

	marks, err := s.loader.attendanceMarks(ctx, studentID, []calendar.Occurrence{occ})
	if err != nil {
		return nil, err
	}
	if m, ok := marks[course.CourseID]; ok {
		resp.Attendance = &dto.AttendanceResponse{Status: m.Status, MarkedAt: formatTime(m.MarkedAt, s.loader.tools.loc)}
	}
	return resp, nil
}

func (s *courseService) GetAssignment(ctx context.Context, studentID, assignmentID string) (*dto.AssignmentDetailResponse, error) {
	a, err := s.loader.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}

	scope, err := s.loader.scopes.ResolveFresh(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !scope.Contains(a.ClassID) {
		return nil, ErrAssignmentNotFound
	}

	return &dto.AssignmentDetailResponse{
		AssignmentDueResponse: toAssignmentDueResponse(assignmentToDue(a), s.loader.tools.loc),
		Description:           a.Description,
		Color:                 calendar.ColorAssignment,
	}, nil
}

func (s *courseService) UpdateStatus(ctx context.Context, courseID string, req *dto.UpdateCourseStatusRequest, callerID, callerRole string) (*dto.CourseDetailResponse, error) {
	course, err := s.loader.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课次失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	if callerRole != jwt.RoleAdmin && (course.TeacherID == nil || *course.TeacherID != callerID) {
		return nil, ErrCourseForbidden
	}
	if req.Version != nil && *req.Version != course.Version {
		return nil, ErrCourseVersionMismatch
	}

	from := calendar.ParseStatus(course.Status)
	to := calendar.ParseStatus(req.Status)
	if !calendar.CanTransition(from, to) {
		return nil, ErrCourseInvalidTransition
	}

	if err := s.loader.repo.Course.UpdateStatus(ctx, course, string(to), &callerID); err != nil {
		// ErrOptimisticLock 原样返回，由 Handler 映射为 409
		return nil, err
	}

	s.logger.Info("课次状态已变更",
		zap.String("course_id", courseID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("operator", callerID),
	)

	return &dto.CourseDetailResponse{
		OccurrenceResponse: toOccurrenceResponse(courseToOccurrence(course), s.loader.tools.loc),
		Version:            course.Version,
	}, nil
}
