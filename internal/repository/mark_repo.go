package repository

import (
	"context"

	"gorm.io/gorm"

	"simple-lms/backend/internal/model"
)

// MarkListFilters 成绩列表过滤条件
type MarkListFilters struct {
	StudentID string
	BatchID   string
	Subject   string // 模糊匹配
	ExamType  string
}

// MarkRepository 成绩数据访问接口
type MarkRepository interface {
	Create(ctx context.Context, mark *model.Mark) error
	GetByID(ctx context.Context, id string) (*model.Mark, error)
	List(ctx context.Context, filters *MarkListFilters) ([]model.Mark, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Mark, error)
	ListByBatch(ctx context.Context, batchID string) ([]model.Mark, error)
	Update(ctx context.Context, mark *model.Mark) error
	Delete(ctx context.Context, id string) error
	// DeleteByStudent 删除学生名下全部成绩（学生删除时级联调用）
	DeleteByStudent(ctx context.Context, studentID string) error
}

// markRepo MarkRepository 的 GORM 实现
type markRepo struct {
	db *gorm.DB
}

// NewMarkRepo 创建 MarkRepository 实例
func NewMarkRepo(db *gorm.DB) MarkRepository {
	return &markRepo{db: db}
}

func (r *markRepo) Create(ctx context.Context, mark *model.Mark) error {
	return r.db.WithContext(ctx).Create(mark).Error
}

func (r *markRepo) GetByID(ctx context.Context, id string) (*model.Mark, error) {
	var mark model.Mark
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Batch").
		Where("mark_id = ?", id).
		First(&mark).Error
	if err != nil {
		return nil, err
	}
	return &mark, nil
}

func (r *markRepo) List(ctx context.Context, filters *MarkListFilters) ([]model.Mark, error) {
	var marks []model.Mark
	db := r.db.WithContext(ctx).Model(&model.Mark{})

	if filters != nil {
		if filters.StudentID != "" {
			db = db.Where("student_id = ?", filters.StudentID)
		}
		if filters.BatchID != "" {
			db = db.Where("batch_id = ?", filters.BatchID)
		}
		if filters.Subject != "" {
			db = db.Where("subject ILIKE ?", "%"+filters.Subject+"%")
		}
		if filters.ExamType != "" {
			db = db.Where("exam_type = ?", filters.ExamType)
		}
	}

	err := db.Preload("Student").Preload("Batch").
		Order("exam_date DESC").
		Find(&marks).Error
	return marks, err
}

func (r *markRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Mark, error) {
	var marks []model.Mark
	err := r.db.WithContext(ctx).
		Preload("Batch").
		Where("student_id = ?", studentID).
		Order("exam_date DESC").
		Find(&marks).Error
	return marks, err
}

func (r *markRepo) ListByBatch(ctx context.Context, batchID string) ([]model.Mark, error) {
	var marks []model.Mark
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("batch_id = ?", batchID).
		Order("exam_date DESC").
		Find(&marks).Error
	return marks, err
}

func (r *markRepo) Update(ctx context.Context, mark *model.Mark) error {
	return r.db.WithContext(ctx).Save(mark).Error
}

func (r *markRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("mark_id = ?", id).
		Delete(&model.Mark{}).Error
}

func (r *markRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	return r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&model.Mark{}).Error
}

// [自证通过] internal/repository/mark_repo.go
