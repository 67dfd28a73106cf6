package repository

import (
	"context"

	"gorm.io/gorm"

	"formation-hub/backend/internal/model"
)

// RecurringSlotRepository 周期时段数据访问接口
type RecurringSlotRepository interface {
	Create(ctx context.Context, slot *model.RecurringSlot) error
	GetByID(ctx context.Context, id string) (*model.RecurringSlot, error)
	ListByClass(ctx context.Context, classID string) ([]model.RecurringSlot, error)
	ListByClasses(ctx context.Context, classIDs []string) ([]model.RecurringSlot, error)
	Delete(ctx context.Context, id string, deletedBy string) error
	// ReplaceByClass 在事务中全量替换班级时段：先删除旧数据，再批量插入新数据
	ReplaceByClass(ctx context.Context, classID string, slots []model.RecurringSlot) error
}

type recurringSlotRepo struct {
	db *gorm.DB
}

// NewRecurringSlotRepo 创建 RecurringSlotRepository 实例
func NewRecurringSlotRepo(db *gorm.DB) RecurringSlotRepository {
	return &recurringSlotRepo{db: db}
}

func (r *recurringSlotRepo) Create(ctx context.Context, slot *model.RecurringSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *recurringSlotRepo) GetByID(ctx context.Context, id string) (*model.RecurringSlot, error) {
	var slot model.RecurringSlot
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		Preload("Teacher").
		Where("recurring_slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *recurringSlotRepo) ListByClass(ctx context.Context, classID string) ([]model.RecurringSlot, error) {
	return r.ListByClasses(ctx, []string{classID})
}

func (r *recurringSlotRepo) ListByClasses(ctx context.Context, classIDs []string) ([]model.RecurringSlot, error) {
	if len(classIDs) == 0 {
		return []model.RecurringSlot{}, nil
	}
	var slots []model.RecurringSlot
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		Preload("Teacher").
		Where("class_id IN ?", classIDs).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *recurringSlotRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.RecurringSlot{}).
			Where("recurring_slot_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		result := tx.Where("recurring_slot_id = ?", id).Delete(&model.RecurringSlot{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *recurringSlotRepo) ReplaceByClass(ctx context.Context, classID string, slots []model.RecurringSlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 导入替换场景，硬删除旧时段
		if err := tx.Unscoped().Where("class_id = ?", classID).
			Delete(&model.RecurringSlot{}).Error; err != nil {
			return err
		}
		if len(slots) > 0 {
			if err := tx.Create(&slots).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
