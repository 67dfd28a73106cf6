package repository

import (
	"context"

	"gorm.io/gorm"

	"formation-hub/backend/internal/model"
)

// EnrollmentRepository 选课数据访问接口
type EnrollmentRepository interface {
	// ListActiveClassIDs 学生当前有效选课的班级 ID
	ListActiveClassIDs(ctx context.Context, studentID string) ([]string, error)
	Create(ctx context.Context, enrollment *model.ClassEnrollment) error
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) ListActiveClassIDs(ctx context.Context, studentID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.ClassEnrollment{}).
		Where("student_id = ? AND status = ?", studentID, model.EnrollmentActive).
		Order("class_id ASC").
		Pluck("class_id", &ids).Error
	return ids, err
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.ClassEnrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}
