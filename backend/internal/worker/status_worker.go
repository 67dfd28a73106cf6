package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"formation-hub/backend/internal/service"
)

const runTimeout = 30 * time.Second

// StatusWorker 定时推进课次状态（scheduled → live → completed）
type StatusWorker struct {
	cron   *cron.Cron
	svc    service.StatusService
	logger *zap.Logger
}

// NewStatusWorker 按 cron 表达式创建定时任务，spec 支持标准五段式与 @every 描述符。
// 上一轮未结束时跳过本轮，任务 panic 会被恢复并记录。
func NewStatusWorker(spec string, svc service.StatusService, logger *zap.Logger) (*StatusWorker, error) {
	cl := cronLogger{logger: logger.Sugar()}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	w := &StatusWorker{cron: c, svc: svc, logger: logger}

	if _, err := c.AddFunc(spec, func() { w.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("无效的 cron 表达式 %q: %w", spec, err)
	}
	return w, nil
}

// Start 启动调度（非阻塞）
func (w *StatusWorker) Start() {
	w.cron.Start()
	w.logger.Info("课次状态任务已启动")
}

// Stop 停止调度并等待正在执行的任务结束，或 ctx 到期
func (w *StatusWorker) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		w.logger.Info("课次状态任务已停止")
	case <-ctx.Done():
		w.logger.Warn("等待课次状态任务结束超时")
	}
}

// RunOnce 执行一轮状态推进，返回推进数量
func (w *StatusWorker) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	start := time.Now()
	n, err := w.svc.AdvanceStatuses(ctx)
	if err != nil {
		w.logger.Error("课次状态推进失败", zap.Int("advanced", n), zap.Error(err))
		return n
	}
	if n > 0 {
		w.logger.Info("课次状态已推进", zap.Int("advanced", n), zap.Duration("latency", time.Since(start)))
	}
	return n
}

// cronLogger 将 cron 内部日志转到 zap
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
