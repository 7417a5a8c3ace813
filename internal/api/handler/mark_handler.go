package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"simple-lms/backend/internal/dto"
	"simple-lms/backend/internal/service"
	"simple-lms/backend/pkg/response"
)

// MarkHandler 成绩模块 HTTP 处理器
type MarkHandler struct {
	markSvc service.MarkService
}

// NewMarkHandler 创建 MarkHandler
func NewMarkHandler(markSvc service.MarkService) *MarkHandler {
	return &MarkHandler{markSvc: markSvc}
}

// ListMarks 获取成绩列表
// GET /api/v1/marks?student_id=xxx&batch_id=xxx&subject=xxx&exam_type=xxx
func (h *MarkHandler) ListMarks(c *gin.Context) {
	var req dto.MarkListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	marks, err := h.markSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKList(c, marks, len(marks))
}

// GetMark 获取成绩详情
// GET /api/v1/marks/:id
func (h *MarkHandler) GetMark(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "成绩ID不能为空")
		return
	}

	mark, err := h.markSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, mark)
}

// ListMarksByStudent 获取学生的成绩列表（含合计统计）
// GET /api/v1/students/:id/marks
func (h *MarkHandler) ListMarksByStudent(c *gin.Context) {
	studentID := c.Param("id")
	if studentID == "" {
		response.BadRequest(c, 10001, "学生ID不能为空")
		return
	}

	result, err := h.markSvc.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, result)
}

// ListMarksByBatch 获取批次的成绩列表
// GET /api/v1/batches/:id/marks
func (h *MarkHandler) ListMarksByBatch(c *gin.Context) {
	batchID := c.Param("id")
	if batchID == "" {
		response.BadRequest(c, 10001, "批次ID不能为空")
		return
	}

	result, err := h.markSvc.ListByBatch(c.Request.Context(), batchID)
	if err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, result)
}

// GetStudentStatistics 获取学生成绩统计
// GET /api/v1/students/:id/statistics
func (h *MarkHandler) GetStudentStatistics(c *gin.Context) {
	studentID := c.Param("id")
	if studentID == "" {
		response.BadRequest(c, 10001, "学生ID不能为空")
		return
	}

	stats, err := h.markSvc.GetStudentStatistics(c.Request.Context(), studentID)
	if err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, stats)
}

// CreateMark 录入成绩
// POST /api/v1/marks
func (h *MarkHandler) CreateMark(c *gin.Context) {
	var req dto.CreateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	mark, err := h.markSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.Created(c, mark)
}

// UpdateMark 更新成绩
// PUT /api/v1/marks/:id
func (h *MarkHandler) UpdateMark(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "成绩ID不能为空")
		return
	}

	var req dto.UpdateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	mark, err := h.markSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, mark)
}

// DeleteMark 删除成绩
// DELETE /api/v1/marks/:id
func (h *MarkHandler) DeleteMark(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "成绩ID不能为空")
		return
	}

	if err := h.markSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleMarkError 统一处理成绩模块业务错误
func (h *MarkHandler) handleMarkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMarkNotFound):
		response.NotFound(c, 14001, "成绩记录不存在")
	case errors.Is(err, service.ErrMarkExceedsTotal):
		response.BadRequest(c, 14002, "得分不能超过总分")
	case errors.Is(err, service.ErrMarkBatchMismatch):
		response.Conflict(c, 14003, "学生不属于指定批次")
	case errors.Is(err, service.ErrMarkDateInvalid):
		response.BadRequest(c, 14004, "考试日期格式无效")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 13001, "学生不存在")
	case errors.Is(err, service.ErrBatchNotFound):
		response.NotFound(c, 12001, "批次不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/mark_handler.go
