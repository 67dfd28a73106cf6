package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"formation-hub/backend/config"
	"formation-hub/backend/internal/api/handler"
	"formation-hub/backend/pkg/jwt"
)

func setupEngine() http.Handler {
	cfg := &config.Config{}
	mgr := jwt.NewManager(&config.AuthConfig{JWTSecret: "router-test-secret-with-enough-length", AccessTokenTTL: time.Minute})
	h := &handler.Handler{
		Calendar: handler.NewCalendarHandler(nil, nil),
		Course:   handler.NewCourseHandler(nil),
		Slot:     handler.NewSlotHandler(nil),
	}
	return Setup(cfg, h, mgr, nil, zap.NewNop())
}

func TestSetup_Health(t *testing.T) {
	w := httptest.NewRecorder()
	setupEngine().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("应设置 X-Request-ID")
	}
}

func TestSetup_RoutesRequireAuth(t *testing.T) {
	engine := setupEngine()
	routes := []struct{ method, path string }{
		{"GET", "/api/v1/calendar/events"},
		{"GET", "/api/v1/calendar/week"},
		{"GET", "/api/v1/calendar/day"},
		{"GET", "/api/v1/calendar/month"},
		{"GET", "/api/v1/calendar/export.ics"},
		{"GET", "/api/v1/calendar/print"},
		{"GET", "/api/v1/calendar/stats"},
		{"GET", "/api/v1/courses/c1"},
		{"PUT", "/api/v1/courses/c1/status"},
		{"GET", "/api/v1/assignments/a1"},
		{"GET", "/api/v1/slots"},
		{"POST", "/api/v1/slots"},
		{"DELETE", "/api/v1/slots/s1"},
		{"POST", "/api/v1/slots/import"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: 未认证应返回 401，实际=%d", rt.method, rt.path, w.Code)
		}
	}
}

func TestSetup_SlotsRequireAdmin(t *testing.T) {
	mgr := jwt.NewManager(&config.AuthConfig{JWTSecret: "router-test-secret-with-enough-length", AccessTokenTTL: time.Minute})
	token, _ := mgr.GenerateAccessToken("student-1", jwt.RoleStudent)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/slots", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	setupEngine().ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("学生访问时段管理应返回 403，实际=%d", w.Code)
	}
}
