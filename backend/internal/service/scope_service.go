package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"formation-hub/backend/internal/calendar"
	"formation-hub/backend/internal/repository"
)

// ScopeCache 选课范围缓存（由 Redis 实现，可为 nil）
type ScopeCache interface {
	GetClassScope(ctx context.Context, studentID string) ([]string, bool, error)
	SetClassScope(ctx context.Context, studentID string, classIDs []string, ttl time.Duration) error
	InvalidateClassScope(ctx context.Context, studentID string) error
}

// ScopeResolver 选课范围解析接口
type ScopeResolver interface {
	// Resolve 学生当前有效选课的班级集合
	Resolve(ctx context.Context, studentID string) (calendar.Scope, error)
	// ResolveFresh 绕过缓存直接查库，并用结果刷新缓存；用于详情与导出等不可容忍过期范围的入口
	ResolveFresh(ctx context.Context, studentID string) (calendar.Scope, error)
	// Invalidate 选课变动后清除缓存
	Invalidate(ctx context.Context, studentID string)
}

type scopeResolver struct {
	repo   *repository.Repository
	cache  ScopeCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewScopeResolver 创建 ScopeResolver；cache 为 nil 时直接查库
func NewScopeResolver(repo *repository.Repository, cache ScopeCache, ttl time.Duration, logger *zap.Logger) ScopeResolver {
	return &scopeResolver{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (r *scopeResolver) Resolve(ctx context.Context, studentID string) (calendar.Scope, error) {
	if r.cache != nil {
		ids, ok, err := r.cache.GetClassScope(ctx, studentID)
		if err != nil {
			// 缓存故障降级为查库
			r.logger.Warn("读取选课范围缓存失败", zap.String("student_id", studentID), zap.Error(err))
		} else if ok {
			return calendar.NewScope(ids...), nil
		}
	}

	return r.fromDatabase(ctx, studentID)
}

func (r *scopeResolver) ResolveFresh(ctx context.Context, studentID string) (calendar.Scope, error) {
	r.Invalidate(ctx, studentID)
	return r.fromDatabase(ctx, studentID)
}

func (r *scopeResolver) fromDatabase(ctx context.Context, studentID string) (calendar.Scope, error) {
	ids, err := r.repo.Enrollment.ListActiveClassIDs(ctx, studentID)
	if err != nil {
		r.logger.Error("查询选课失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	if r.cache != nil && r.ttl > 0 {
		if err := r.cache.SetClassScope(ctx, studentID, ids, r.ttl); err != nil {
			r.logger.Warn("写入选课范围缓存失败", zap.String("student_id", studentID), zap.Error(err))
		}
	}
	return calendar.NewScope(ids...), nil
}

func (r *scopeResolver) Invalidate(ctx context.Context, studentID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateClassScope(ctx, studentID); err != nil {
		r.logger.Warn("清除选课范围缓存失败", zap.String("student_id", studentID), zap.Error(err))
	}
}
