package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"formation-hub/backend/internal/dto"
	"formation-hub/backend/internal/service"
	"formation-hub/backend/pkg/response"
)

// SlotHandler 周期时段 HTTP 处理器
type SlotHandler struct {
	slotSvc service.SlotService
}

// NewSlotHandler 创建 SlotHandler
func NewSlotHandler(slotSvc service.SlotService) *SlotHandler {
	return &SlotHandler{slotSvc: slotSvc}
}

// ListSlots 班级周期时段列表
// GET /api/v1/slots?class_id=
func (h *SlotHandler) ListSlots(c *gin.Context) {
	var req dto.SlotListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	slots, err := h.slotSvc.List(c.Request.Context(), req.ClassID)
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// CreateSlot 创建周期时段
// POST /api/v1/slots
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slot, err := h.slotSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.Created(c, slot)
}

// DeleteSlot 删除周期时段
// DELETE /api/v1/slots/:id
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	var uri dto.IDParam
	if err := c.ShouldBindUri(&uri); err != nil {
		response.NotFound(c, 22001, "周期时段不存在")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.slotSvc.Delete(c.Request.Context(), uri.ID, callerID); err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.OK(c, nil)
}

// ImportSlots 从 ICS 文件导入周期时段（替换班级现有时段）
// POST /api/v1/slots/import  multipart: file, class_id
func (h *SlotHandler) ImportSlots(c *gin.Context) {
	var req dto.ImportSlotsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 22004, "请上传 ICS 文件")
		return
	}
	defer file.Close()

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.slotSvc.ImportICS(c.Request.Context(), req.ClassID, file, callerID)
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.Created(c, resp)
}

// handleSlotError 统一处理周期时段模块业务错误
func (h *SlotHandler) handleSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 22001, "周期时段不存在")
	case errors.Is(err, service.ErrSlotInvalidInterval):
		response.BadRequest(c, 22002, "时段开始时间必须早于结束时间")
	case errors.Is(err, service.ErrSlotSubjectNotFound):
		response.BadRequest(c, 22003, "关联的科目不存在")
	case errors.Is(err, service.ErrSlotICSInvalid):
		response.BadRequest(c, 22005, "ICS 文件无法解析")
	default:
		response.InternalError(c)
	}
}
