package service

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "formation-hub/backend/pkg/errors"
)

func TestStatusService_AdvanceStatuses(t *testing.T) {
	env := setupTestEnv(t, testNow)
	env.addCourse("ended", testClassA, mathSubject, testNow.Add(-3*time.Hour), 60, "scheduled")
	env.addCourse("running", testClassA, mathSubject, testNow.Add(-30*time.Minute), 90, "scheduled")
	env.addCourse("live-ended", testClassA, mathSubject, testNow.Add(-2*time.Hour), 60, "live")
	env.addCourse("live-running", testClassA, mathSubject, testNow.Add(-10*time.Minute), 60, "live")
	env.addCourse("future", testClassA, mathSubject, testNow.Add(time.Hour), 60, "scheduled")
	env.addCourse("cancelled", testClassA, mathSubject, testNow.Add(-3*time.Hour), 60, "cancelled")

	n, err := env.svc.Status.AdvanceStatuses(context.Background())
	if err != nil {
		t.Fatalf("AdvanceStatuses 应成功: %v", err)
	}
	if n != 3 {
		t.Errorf("期望推进 3 个课次，实际=%d", n)
	}

	want := map[string]string{
		"ended":        "completed",
		"running":      "live",
		"live-ended":   "completed",
		"live-running": "live",
		"future":       "scheduled",
		"cancelled":    "cancelled",
	}
	for id, status := range want {
		if got := env.courses.courses[id].Status; got != status {
			t.Errorf("%s: 期望 %s，实际=%s", id, status, got)
		}
	}
}

func TestStatusService_SkipsOptimisticLockConflicts(t *testing.T) {
	env := setupTestEnv(t, testNow)
	env.addCourse("ended", testClassA, mathSubject, testNow.Add(-3*time.Hour), 60, "scheduled")
	env.courses.updateErr = pkgerrors.ErrOptimisticLock

	n, err := env.svc.Status.AdvanceStatuses(context.Background())
	if err != nil {
		t.Errorf("并发冲突不应视为错误: %v", err)
	}
	if n != 0 {
		t.Errorf("期望 0，实际=%d", n)
	}
}

func TestStatusService_ReportsRepositoryErrors(t *testing.T) {
	env := setupTestEnv(t, testNow)
	env.addCourse("ended", testClassA, mathSubject, testNow.Add(-3*time.Hour), 60, "scheduled")
	env.courses.updateErr = errMockDB

	if _, err := env.svc.Status.AdvanceStatuses(context.Background()); !errors.Is(err, errMockDB) {
		t.Errorf("期望 errMockDB，实际=%v", err)
	}
}
