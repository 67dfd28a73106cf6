package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"formation-hub/backend/internal/dto"
	"formation-hub/backend/internal/service"
	pkgerrors "formation-hub/backend/pkg/errors"
	"formation-hub/backend/pkg/response"
)

// CourseHandler 课次与作业详情 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// GetCourse 课次详情
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		response.NotFound(c, 21001, "课次不存在")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.GetCourse(c.Request.Context(), studentID, uri.ID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// GetAssignment 作业详情
// GET /api/v1/assignments/:id
func (h *CourseHandler) GetAssignment(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		response.NotFound(c, 21002, "作业不存在")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.courseSvc.GetAssignment(c.Request.Context(), studentID, uri.ID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, assignment)
}

// UpdateStatus 课次状态变更
// PUT /api/v1/courses/:id/status
func (h *CourseHandler) UpdateStatus(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		response.NotFound(c, 21001, "课次不存在")
		return
	}

	var req dto.UpdateCourseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.UpdateStatus(c.Request.Context(), uri.ID, &req, callerID, role)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// handleCourseError 统一处理课程模块业务错误
func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 21001, "课次不存在")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 21002, "作业不存在")
	case errors.Is(err, service.ErrCourseForbidden):
		response.Forbidden(c, 21003, "无权修改该课次")
	case errors.Is(err, service.ErrCourseInvalidTransition):
		response.Conflict(c, 21004, "课次状态不允许此变更")
	case errors.Is(err, service.ErrCourseVersionMismatch), errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 21005, "课次已被修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
