package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"formation-hub/backend/internal/calendar"
	"formation-hub/backend/internal/dto"
	"formation-hub/backend/internal/model"
	pkgerrors "formation-hub/backend/pkg/errors"
	"formation-hub/backend/pkg/jwt"
)

func intPtr(i int) *int { return &i }

// ── GetCourse 测试 ──

func TestCourseService_GetCourse(t *testing.T) {
	env := setupTestEnv(t, testNow)
	env.addCourse("c1", testClassA, mathSubject, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), 90, "completed")
	_ = env.attendance.Create(context.Background(), &model.Attendance{
		CourseID: "c1", StudentID: testStudentID, Status: model.AttendanceLate,
		MarkedAt: time.Date(2025, 3, 10, 9, 12, 0, 0, time.UTC),
	})

	resp, err := env.svc.Course.GetCourse(context.Background(), testStudentID, "c1")
	if err != nil {
		t.Fatalf("GetCourse 应成功: %v", err)
	}
	if resp.SubjectName != "Math" || resp.TeacherName != "A. Dupont" || resp.Room != "B12" {
		t.Errorf("详情字段错误: %+v", resp.OccurrenceResponse)
	}
	if resp.EndAt != "2025-03-10T10:30:00Z" {
		t.Errorf("结束时间错误: %s", resp.EndAt)
	}
	if resp.Color != calendar.ColorGray || resp.Version != 1 {
		t.Errorf("颜色或版本错误: %s v%d", resp.Color, resp.Version)
	}
	if resp.Attendance == nil || resp.Attendance.Status != model.AttendanceLate {
		t.Error("应附带考勤记录")
	}
}

func TestCourseService_GetCourse_OutsideScopeIsNotFound(t *testing.T) {
	env := setupTestEnv(t, testNow)
	env.addCourse("foreign", testClassB, mathSubject, testNow, 60, "scheduled")

	if _, err := env.svc.Course.GetCourse(context.Background(), testStudentID, "foreign"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("范围外课次应视为不存在，实际=%v", err)
	}
	if _, err := env.svc.Course.GetCourse(context.Background(), testStudentID, "missing"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际=%v", err)
	}
}

func TestCourseService_GetCourse_AfterWithdrawalIsNotFound(t *testing.T) {
	env := setupTestEnv(t, testNow)
	ctx := context.Background()
	env.addCourse("c1", testClassA, mathSubject, testNow, 60, "scheduled")
	env.addAssignment("a1", testClassA, testNow.Add(24*time.Hour))

	if _, err := env.svc.Course.GetCourse(ctx, testStudentID, "c1"); err != nil {
		t.Fatalf("退课前应可查看: %v", err)
	}
	env.enrollments.classes[testStudentID] = nil

	if _, err := env.svc.Course.GetCourse(ctx, testStudentID, "c1"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("退课后期望 ErrCourseNotFound，实际=%v", err)
	}
	if _, err := env.svc.Course.GetAssignment(ctx, testStudentID, "a1"); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("退课后期望 ErrAssignmentNotFound，实际=%v", err)
	}
}

func TestCourseService_GetAssignment(t *testing.T) {
	env := setupTestEnv(t, testNow)
	env.addAssignment("a1", testClassA, time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC))
	env.addAssignment("a2", testClassB, time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC))

	resp, err := env.svc.Course.GetAssignment(context.Background(), testStudentID, "a1")
	if err != nil {
		t.Fatalf("GetAssignment 应成功: %v", err)
	}
	if resp.Description != "Exercices 1 à 5" || resp.Color != calendar.ColorAssignment || resp.SubjectName != "Math" {
		t.Errorf("作业详情错误: %+v", resp)
	}

	if _, err := env.svc.Course.GetAssignment(context.Background(), testStudentID, "a2"); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("范围外作业应视为不存在，实际=%v", err)
	}
}

// ── UpdateStatus 测试 ──

func TestCourseService_UpdateStatus_OwnerTeacher(t *testing.T) {
	env := setupTestEnv(t, testNow)
	env.addCourse("c1", testClassA, mathSubject, testNow, 60, "scheduled")

	resp, err := env.svc.Course.UpdateStatus(context.Background(), "c1",
		&dto.UpdateCourseStatusRequest{Status: "live", Version: intPtr(1)}, testTeacherID, jwt.RoleTeacher)
	if err != nil {
		t.Fatalf("UpdateStatus 应成功: %v", err)
	}
	if resp.Status != "live" || resp.Version != 2 {
		t.Errorf("期望 live/v2，实际=%s/v%d", resp.Status, resp.Version)
	}
	if env.courses.courses["c1"].Status != "live" {
		t.Error("存储中的状态未更新")
	}
}

func TestCourseService_UpdateStatus_Admin(t *testing.T) {
	env := setupTestEnv(t, testNow)
	env.addCourse("c1", testClassA, mathSubject, testNow, 60, "live")

	if _, err := env.svc.Course.UpdateStatus(context.Background(), "c1",
		&dto.UpdateCourseStatusRequest{Status: "cancelled"}, "admin-1", jwt.RoleAdmin); err != nil {
		t.Fatalf("管理员可修改任意课次: %v", err)
	}
}

func TestCourseService_UpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		req      dto.UpdateCourseStatusRequest
		caller   string
		role     string
		repoErr  error
		expected error
	}{
		{"其他教师", "scheduled", dto.UpdateCourseStatusRequest{Status: "live"}, "teacher-2", jwt.RoleTeacher, nil, ErrCourseForbidden},
		{"学生", "scheduled", dto.UpdateCourseStatusRequest{Status: "live"}, testStudentID, jwt.RoleStudent, nil, ErrCourseForbidden},
		{"版本不一致", "scheduled", dto.UpdateCourseStatusRequest{Status: "live", Version: intPtr(5)}, testTeacherID, jwt.RoleTeacher, nil, ErrCourseVersionMismatch},
		{"终态不可迁移", "completed", dto.UpdateCourseStatusRequest{Status: "live"}, testTeacherID, jwt.RoleTeacher, nil, ErrCourseInvalidTransition},
		{"不可回退", "live", dto.UpdateCourseStatusRequest{Status: "scheduled"}, testTeacherID, jwt.RoleTeacher, nil, ErrCourseInvalidTransition},
		{"并发冲突", "scheduled", dto.UpdateCourseStatusRequest{Status: "completed"}, testTeacherID, jwt.RoleTeacher, pkgerrors.ErrOptimisticLock, pkgerrors.ErrOptimisticLock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t, testNow)
			env.addCourse("c1", testClassA, mathSubject, testNow, 60, tt.status)
			env.courses.updateErr = tt.repoErr

			_, err := env.svc.Course.UpdateStatus(context.Background(), "c1", &tt.req, tt.caller, tt.role)
			if !errors.Is(err, tt.expected) {
				t.Errorf("期望 %v，实际=%v", tt.expected, err)
			}
		})
	}
}

func TestCourseService_UpdateStatus_NotFound(t *testing.T) {
	env := setupTestEnv(t, testNow)

	_, err := env.svc.Course.UpdateStatus(context.Background(), "missing",
		&dto.UpdateCourseStatusRequest{Status: "live"}, "admin-1", jwt.RoleAdmin)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际=%v", err)
	}
}
