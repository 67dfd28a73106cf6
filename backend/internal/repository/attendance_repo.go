package repository

import (
	"context"

	"gorm.io/gorm"

	"formation-hub/backend/internal/model"
)

// AttendanceRepository 考勤数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *model.Attendance) error
	ListByStudentAndCourses(ctx context.Context, studentID string, courseIDs []string) ([]model.Attendance, error)
	// CountByStudent 按考勤状态统计学生记录数
	CountByStudent(ctx context.Context, studentID string) (map[string]int64, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Create(attendance).Error
}

func (r *attendanceRepo) ListByStudentAndCourses(ctx context.Context, studentID string, courseIDs []string) ([]model.Attendance, error) {
	if len(courseIDs) == 0 {
		return []model.Attendance{}, nil
	}
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id IN ?", studentID, courseIDs).
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) CountByStudent(ctx context.Context, studentID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Select("status, COUNT(*) AS count").
		Where("student_id = ?", studentID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
