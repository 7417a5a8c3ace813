package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"simple-lms/backend/internal/dto"
	"simple-lms/backend/internal/service"
	"simple-lms/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult   *dto.UserResponse
	registerErr      error
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	getCurrentResult *dto.UserDetailResponse
	getCurrentErr    error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserDetailResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}

// ── Mock BatchService ──

type mockBatchService struct {
	createResult    *dto.BatchResponse
	createErr       error
	getResult       *dto.BatchDetailResponse
	getErr          error
	listResult      []dto.BatchResponse
	listErr         error
	updateResult    *dto.BatchResponse
	updateErr       error
	deleteErr       error
	toggleResult    *dto.BatchResponse
	toggleErr       error
	reconcileResult *dto.ReconcileCountersResponse
	reconcileErr    error
}

func (m *mockBatchService) Create(_ context.Context, _ *dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockBatchService) GetByID(_ context.Context, _ string) (*dto.BatchDetailResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockBatchService) List(_ context.Context, _ *dto.BatchListRequest) ([]dto.BatchResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockBatchService) Update(_ context.Context, _ string, _ *dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockBatchService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockBatchService) ToggleActive(_ context.Context, _ string) (*dto.BatchResponse, error) {
	return m.toggleResult, m.toggleErr
}
func (m *mockBatchService) ReconcileCounters(_ context.Context) (*dto.ReconcileCountersResponse, error) {
	return m.reconcileResult, m.reconcileErr
}

// ── Mock StudentService ──

type mockStudentService struct {
	createResult      *dto.StudentResponse
	createErr         error
	getResult         *dto.StudentDetailResponse
	getErr            error
	listResult        []dto.StudentResponse
	listErr           error
	listByBatchResult []dto.StudentResponse
	listByBatchErr    error
	updateResult      *dto.StudentResponse
	updateErr         error
	deleteErr         error
}

func (m *mockStudentService) Create(_ context.Context, _ *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockStudentService) GetByID(_ context.Context, _ string) (*dto.StudentDetailResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockStudentService) List(_ context.Context, _ *dto.StudentListRequest) ([]dto.StudentResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockStudentService) ListByBatch(_ context.Context, _ string) ([]dto.StudentResponse, error) {
	return m.listByBatchResult, m.listByBatchErr
}
func (m *mockStudentService) Update(_ context.Context, _ string, _ *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockStudentService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

// ── Mock MarkService ──

type mockMarkService struct {
	createResult        *dto.MarkResponse
	createErr           error
	getResult           *dto.MarkResponse
	getErr              error
	listResult          []dto.MarkResponse
	listErr             error
	listByStudentResult *dto.StudentMarksResponse
	listByStudentErr    error
	listByBatchResult   *dto.BatchMarksResponse
	listByBatchErr      error
	updateResult        *dto.MarkResponse
	updateErr           error
	deleteErr           error
	statsResult         *dto.StudentStatisticsResponse
	statsErr            error
}

func (m *mockMarkService) Create(_ context.Context, _ *dto.CreateMarkRequest) (*dto.MarkResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockMarkService) GetByID(_ context.Context, _ string) (*dto.MarkResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockMarkService) List(_ context.Context, _ *dto.MarkListRequest) ([]dto.MarkResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockMarkService) ListByStudent(_ context.Context, _ string) (*dto.StudentMarksResponse, error) {
	return m.listByStudentResult, m.listByStudentErr
}
func (m *mockMarkService) ListByBatch(_ context.Context, _ string) (*dto.BatchMarksResponse, error) {
	return m.listByBatchResult, m.listByBatchErr
}
func (m *mockMarkService) Update(_ context.Context, _ string, _ *dto.UpdateMarkRequest) (*dto.MarkResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockMarkService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockMarkService) GetStudentStatistics(_ context.Context, _ string) (*dto.StudentStatisticsResponse, error) {
	return m.statsResult, m.statsErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	ics      string
	err      error
}

func (m *mockExportService) ExportBatchMarks(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

func (m *mockExportService) ExportExamCalendar(_ context.Context, _ string) (string, string, error) {
	return m.ics, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_InjectsTokenInfo(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		c.Set("token_jti", "test-jti")
		c.Set("token_exp", time.Now().Add(15*time.Minute))
	}, h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// BatchHandler Tests
// ═══════════════════════════════════════════════════════════

func TestBatchHandler_CreateBatch_Success(t *testing.T) {
	mock := &mockBatchService{
		createResult: &dto.BatchResponse{ID: "batch-001", BatchCode: "SPRING26", IsActive: true},
	}
	h := NewBatchHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/batches", jsonBody(dto.CreateBatchRequest{
		BatchName: "2026 春季班",
		BatchCode: "spring26",
		StartDate: "2026-01-15",
		EndDate:   "2026-12-15",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/batches", h.CreateBatch)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestBatchHandler_CreateBatch_MissingFields(t *testing.T) {
	h := NewBatchHandler(&mockBatchService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/batches", jsonBody(gin.H{"batch_name": "x"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/batches", h.CreateBatch)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("expected error code 10001, got %d", resp.Code)
	}
}

func TestBatchHandler_GetBatch_NotFound(t *testing.T) {
	h := NewBatchHandler(&mockBatchService{getErr: service.ErrBatchNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/batches/missing", nil)

	r := gin.New()
	r.GET("/batches/:id", h.GetBatch)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12001 {
		t.Errorf("expected error code 12001, got %d", resp.Code)
	}
}

func TestBatchHandler_DeleteBatch_HasStudents(t *testing.T) {
	h := NewBatchHandler(&mockBatchService{
		deleteErr: &service.BatchHasStudentsError{Count: 3},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/batches/batch-001", nil)

	r := gin.New()
	r.DELETE("/batches/:id", h.DeleteBatch)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12005 {
		t.Errorf("expected error code 12005, got %d", resp.Code)
	}
}

func TestBatchHandler_ReconcileCounters(t *testing.T) {
	h := NewBatchHandler(&mockBatchService{
		reconcileResult: &dto.ReconcileCountersResponse{BatchesChecked: 5, BatchesRepaired: 1},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/admin/reconcile-counters", nil)

	r := gin.New()
	r.POST("/admin/reconcile-counters", h.ReconcileCounters)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// StudentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestStudentHandler_CreateStudent_EmailConflict(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{createErr: service.ErrStudentEmailExists})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/students", jsonBody(dto.CreateStudentRequest{
		FirstName:        "Asha",
		LastName:         "Rao",
		Email:            "asha@example.com",
		BatchID:          "2f1e8a4c-9d3b-4f6a-8c1e-5b7d9e2a4c6f",
		EnrollmentNumber: "ENR-001",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/students", h.CreateStudent)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13002 {
		t.Errorf("expected error code 13002, got %d", resp.Code)
	}
}

func TestStudentHandler_ListStudents(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{
		listResult: []dto.StudentResponse{{ID: "stu-001"}, {ID: "stu-002"}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/students", nil)

	r := gin.New()
	r.GET("/students", h.ListStudents)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// MarkHandler Tests
// ═══════════════════════════════════════════════════════════

func TestMarkHandler_CreateMark_BatchMismatch(t *testing.T) {
	h := NewMarkHandler(&mockMarkService{createErr: service.ErrMarkBatchMismatch})

	obtained, total := 45.0, 50.0
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/marks", jsonBody(dto.CreateMarkRequest{
		StudentID:     "2f1e8a4c-9d3b-4f6a-8c1e-5b7d9e2a4c6f",
		BatchID:       "3a2f9b5d-8c4e-4a7b-9d2f-6c8e0f3b5d7a",
		Subject:       "Math",
		MarksObtained: &obtained,
		TotalMarks:    &total,
		ExamDate:      "2026-03-10",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/marks", h.CreateMark)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14003 {
		t.Errorf("expected error code 14003, got %d", resp.Code)
	}
}

// binding 层拒绝超出范围的分数，不应触达 Service
func TestMarkHandler_CreateMark_OutOfRange(t *testing.T) {
	h := NewMarkHandler(&mockMarkService{})

	obtained, total := 150.0, 50.0
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/marks", jsonBody(dto.CreateMarkRequest{
		StudentID:     "2f1e8a4c-9d3b-4f6a-8c1e-5b7d9e2a4c6f",
		BatchID:       "3a2f9b5d-8c4e-4a7b-9d2f-6c8e0f3b5d7a",
		Subject:       "Math",
		MarksObtained: &obtained,
		TotalMarks:    &total,
		ExamDate:      "2026-03-10",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/marks", h.CreateMark)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMarkHandler_GetStudentStatistics(t *testing.T) {
	h := NewMarkHandler(&mockMarkService{
		statsResult: &dto.StudentStatisticsResponse{
			TotalExams:             2,
			AveragePercentage:      85.0,
			SubjectWisePerformance: []dto.SubjectPerformanceResponse{},
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/students/stu-001/statistics", nil)

	r := gin.New()
	r.GET("/students/:id/statistics", h.GetStudentStatistics)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportBatchMarks_Success(t *testing.T) {
	h := NewExportHandler(&mockExportService{
		buf:      bytes.NewBufferString("fake-xlsx-bytes"),
		filename: "marks_SPRING26.xlsx",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/marks?batch_id=batch-001", nil)

	r := gin.New()
	r.GET("/export/marks", h.ExportBatchMarks)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected Content-Type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("Content-Disposition 应已设置")
	}
}

func TestExportHandler_ExportBatchMarks_MissingBatchID(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/marks", nil)

	r := gin.New()
	r.GET("/export/marks", h.ExportBatchMarks)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_ExportBatchMarks_NoMarks(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoMarks})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/marks?batch_id=batch-001", nil)

	r := gin.New()
	r.GET("/export/marks", h.ExportBatchMarks)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExportHandler_ExportExamCalendar_Success(t *testing.T) {
	h := NewExportHandler(&mockExportService{
		ics:      "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n",
		filename: "exams_SPRING26.ics",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/exams?batch_id=batch-001", nil)

	r := gin.New()
	r.GET("/export/exams", h.ExportExamCalendar)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("expected text/calendar content type, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("expected Content-Disposition header")
	}
	if w.Body.String() != "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n" {
		t.Error("response body does not match calendar content")
	}
}

func TestExportHandler_ExportExamCalendar_MissingBatchID(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/exams", nil)

	r := gin.New()
	r.GET("/export/exams", h.ExportExamCalendar)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
