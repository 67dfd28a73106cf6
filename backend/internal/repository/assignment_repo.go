package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"formation-hub/backend/internal/model"
)

// AssignmentRepository 作业数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	ListByClassesAndRange(ctx context.Context, classIDs []string, start, end time.Time) ([]model.Assignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) ListByClassesAndRange(ctx context.Context, classIDs []string, start, end time.Time) ([]model.Assignment, error) {
	if len(classIDs) == 0 {
		return []model.Assignment{}, nil
	}
	var list []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("class_id IN ? AND due_date BETWEEN ? AND ?", classIDs, start, end).
		Order("due_date ASC, assignment_id ASC").
		Find(&list).Error
	return list, err
}
