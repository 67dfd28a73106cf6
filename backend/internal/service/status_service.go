package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"formation-hub/backend/internal/calendar"
	"formation-hub/backend/internal/repository"
	"formation-hub/backend/pkg/clock"
	pkgerrors "formation-hub/backend/pkg/errors"
)

// StatusService 课次状态随时间推进（由定时任务调用）
type StatusService interface {
	// AdvanceStatuses 将已开始的课次置为 live、已结束的置为 completed，返回变更数
	AdvanceStatuses(ctx context.Context) (int, error)
}

type statusService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewStatusService 创建 StatusService 实例
func NewStatusService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) StatusService {
	if clk == nil {
		clk = clock.Real{}
	}
	return &statusService{repo: repo, clock: clk, logger: logger}
}

func (s *statusService) AdvanceStatuses(ctx context.Context) (int, error) {
	now := s.clock.Now()
	courses, err := s.repo.Course.ListActiveBefore(ctx, now)
	if err != nil {
		s.logger.Error("查询待推进课次失败", zap.Error(err))
		return 0, err
	}

	advanced := 0
	var errs []error
	for i := range courses {
		c := &courses[i]
		current := calendar.ParseStatus(c.Status)
		next := calendar.StatusAt(current, c.ScheduledAt, c.DurationMinutes, now)
		if next == current || !calendar.CanTransition(current, next) {
			continue
		}
		if err := s.repo.Course.UpdateStatus(ctx, c, string(next), nil); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				// 已被人工修改，下一轮再处理
				s.logger.Debug("课次状态推进冲突", zap.String("course_id", c.CourseID))
				continue
			}
			s.logger.Error("推进课次状态失败", zap.String("course_id", c.CourseID), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		advanced++
	}
	return advanced, errors.Join(errs...)
}
