package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"formation-hub/backend/internal/model"
)

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	// ListByNames 按名称批量查询，不区分大小写
	ListByNames(ctx context.Context, names []string) ([]model.Subject, error)
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var s model.Subject
	if err := r.db.WithContext(ctx).Where("subject_id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subjectRepo) ListByNames(ctx context.Context, names []string) ([]model.Subject, error) {
	if len(names) == 0 {
		return []model.Subject{}, nil
	}
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}
	var list []model.Subject
	err := r.db.WithContext(ctx).
		Where("LOWER(name) IN ?", lowered).
		Find(&list).Error
	return list, err
}
