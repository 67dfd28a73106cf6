package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"formation-hub/backend/internal/dto"
	"formation-hub/backend/internal/service"
	"formation-hub/backend/pkg/response"
)

const (
	contentTypeICS  = "text/calendar; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsFilename     = "schedule.ics"
)

// CalendarHandler 日历模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
	exportSvc   service.ExportService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService, exportSvc service.ExportService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc, exportSvc: exportSvc}
}

// ListEvents 日历事件
// GET /api/v1/calendar/events?start=&end=&class_id=
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	var req dto.CalendarEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	events, err := h.calendarSvc.ListEvents(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, gin.H{"list": events})
}

// GetWeek 周视图
// GET /api/v1/calendar/week?week=YYYY-MM-DD
func (h *CalendarHandler) GetWeek(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	view, err := h.calendarSvc.GetWeek(c.Request.Context(), studentID, c.Query("week"))
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, view)
}

// GetDay 日视图
// GET /api/v1/calendar/day?date=YYYY-MM-DD
func (h *CalendarHandler) GetDay(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	view, err := h.calendarSvc.GetDay(c.Request.Context(), studentID, c.Query("date"))
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, view)
}

// GetMonth 月视图
// GET /api/v1/calendar/month?month=YYYY-MM
func (h *CalendarHandler) GetMonth(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	view, err := h.calendarSvc.GetMonth(c.Request.Context(), studentID, c.Query("month"))
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, view)
}

// ExportICS 下载 iCalendar 文件
// GET /api/v1/calendar/export.ics
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	var req dto.ExportICSRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, err := h.calendarSvc.ExportICS(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Attachment(c, contentTypeICS, icsFilename, data)
}

// Print 导出周/月打印视图
// GET /api/v1/calendar/print?type=week|month&date=
func (h *CalendarHandler) Print(c *gin.Context) {
	var req dto.PrintRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportPrint(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Attachment(c, contentTypeXLSX, filename, buf.Bytes())
}

// GetStats 出勤统计
// GET /api/v1/calendar/stats
func (h *CalendarHandler) GetStats(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	stats, err := h.calendarSvc.GetStats(c.Request.Context(), studentID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, stats)
}

// handleCalendarError 统一处理日历模块业务错误
func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCalendarInvalidRange):
		response.BadRequest(c, 20001, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrCalendarScopeViolation):
		response.Forbidden(c, 20002, "无权查看该班级")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 20003, "生成打印文件失败")
	default:
		response.InternalError(c)
	}
}
