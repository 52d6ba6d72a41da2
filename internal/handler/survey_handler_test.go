package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse-survey/internal/domain"
	"pulse-survey/internal/dto"
	"pulse-survey/internal/handler"
	"pulse-survey/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionID = "01HGZ8VNRYXS8QKNJV5GRWPWDQ"

// --- Manual Mocks ---

// MockSurveyService
type MockSurveyService struct {
	SchemaFunc         func() *domain.Schema
	CreateSessionFunc  func(ctx context.Context) (*dto.SessionResponse, error)
	GetSessionFunc     func(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	SetFieldFunc       func(ctx context.Context, sessionID string, req *dto.SetFieldRequest) (*dto.SessionResponse, error)
	ToggleOptionFunc   func(ctx context.Context, sessionID string, req *dto.ToggleOptionRequest) (*dto.SessionResponse, error)
	SetMatrixRowFunc   func(ctx context.Context, sessionID string, req *dto.SetMatrixRowRequest) (*dto.SessionResponse, error)
	ProgressFunc       func(ctx context.Context, sessionID string) (*dto.ProgressResponse, error)
	ValidateFunc       func(ctx context.Context, sessionID string) (*dto.ValidationResponse, error)
	PayloadPreviewFunc func(ctx context.Context, sessionID string) (*dto.PayloadResponse, error)
	SubmitFunc         func(ctx context.Context, sessionID string) (*dto.SubmitResponse, error)
	ResetFunc          func(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
}

func (m *MockSurveyService) Schema() *domain.Schema {
	if m.SchemaFunc != nil {
		return m.SchemaFunc()
	}
	panic("MockSurveyService.SchemaFunc not implemented")
}
func (m *MockSurveyService) CreateSession(ctx context.Context) (*dto.SessionResponse, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx)
	}
	panic("MockSurveyService.CreateSessionFunc not implemented")
}
func (m *MockSurveyService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	panic("MockSurveyService.GetSessionFunc not implemented")
}
func (m *MockSurveyService) SetField(ctx context.Context, sessionID string, req *dto.SetFieldRequest) (*dto.SessionResponse, error) {
	if m.SetFieldFunc != nil {
		return m.SetFieldFunc(ctx, sessionID, req)
	}
	panic("MockSurveyService.SetFieldFunc not implemented")
}
func (m *MockSurveyService) ToggleOption(ctx context.Context, sessionID string, req *dto.ToggleOptionRequest) (*dto.SessionResponse, error) {
	if m.ToggleOptionFunc != nil {
		return m.ToggleOptionFunc(ctx, sessionID, req)
	}
	panic("MockSurveyService.ToggleOptionFunc not implemented")
}
func (m *MockSurveyService) SetMatrixRow(ctx context.Context, sessionID string, req *dto.SetMatrixRowRequest) (*dto.SessionResponse, error) {
	if m.SetMatrixRowFunc != nil {
		return m.SetMatrixRowFunc(ctx, sessionID, req)
	}
	panic("MockSurveyService.SetMatrixRowFunc not implemented")
}
func (m *MockSurveyService) Progress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error) {
	if m.ProgressFunc != nil {
		return m.ProgressFunc(ctx, sessionID)
	}
	panic("MockSurveyService.ProgressFunc not implemented")
}
func (m *MockSurveyService) Validate(ctx context.Context, sessionID string) (*dto.ValidationResponse, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, sessionID)
	}
	panic("MockSurveyService.ValidateFunc not implemented")
}
func (m *MockSurveyService) PayloadPreview(ctx context.Context, sessionID string) (*dto.PayloadResponse, error) {
	if m.PayloadPreviewFunc != nil {
		return m.PayloadPreviewFunc(ctx, sessionID)
	}
	panic("MockSurveyService.PayloadPreviewFunc not implemented")
}
func (m *MockSurveyService) Submit(ctx context.Context, sessionID string) (*dto.SubmitResponse, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, sessionID)
	}
	panic("MockSurveyService.SubmitFunc not implemented")
}
func (m *MockSurveyService) Reset(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	panic("MockSurveyService.ResetFunc not implemented")
}

// MockDashboardService
type MockDashboardService struct {
	GetDashboardFunc func(ctx context.Context) (*dto.DashboardResponse, error)
}

func (m *MockDashboardService) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if m.GetDashboardFunc != nil {
		return m.GetDashboardFunc(ctx)
	}
	panic("MockDashboardService.GetDashboardFunc not implemented")
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func setupApp(survey *MockSurveyService, dashboard *MockDashboardService, pinger handler.Pinger) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	api := app.Group("/api")
	handler.RegisterRoutes(api,
		handler.NewSurveyHandler(survey),
		handler.NewDashboardHandler(dashboard),
		handler.NewHealthHandler(pinger),
	)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSurveyHandler_GetSurvey(t *testing.T) {
	svc := &MockSurveyService{
		SchemaFunc: func() *domain.Schema {
			return &domain.Schema{Title: "Impact", Sections: []domain.Section{{Title: "S1"}}}
		},
	}
	app := setupApp(svc, &MockDashboardService{}, stubPinger{})

	resp := doJSON(t, app, http.MethodGet, "/api/survey", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	schema := decode[domain.Schema](t, resp)
	assert.Equal(t, "Impact", schema.Title)
}

func TestSurveyHandler_CreateSession(t *testing.T) {
	svc := &MockSurveyService{
		CreateSessionFunc: func(ctx context.Context) (*dto.SessionResponse, error) {
			return &dto.SessionResponse{SessionID: testSessionID, State: "idle", Answers: map[string]any{"q11_time_spent_before": 65.0}}, nil
		},
	}
	app := setupApp(svc, &MockDashboardService{}, stubPinger{})

	resp := doJSON(t, app, http.MethodPost, "/api/sessions", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode[dto.SessionResponse](t, resp)
	assert.Equal(t, testSessionID, body.SessionID)
	assert.Equal(t, 65.0, body.Answers["q11_time_spent_before"])
}

func TestSurveyHandler_GetSession(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "found", path: "/api/sessions/" + testSessionID, wantStatus: http.StatusOK},
		{name: "not found", path: "/api/sessions/" + testSessionID, svcErr: domain.NewSessionNotFoundError(testSessionID), wantStatus: http.StatusNotFound, wantCode: "SESSION_NOT_FOUND"},
		{name: "malformed id", path: "/api/sessions/abc", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockSurveyService{
				GetSessionFunc: func(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
					assert.Equal(t, testSessionID, sessionID)
					if tt.svcErr != nil {
						return nil, tt.svcErr
					}
					return &dto.SessionResponse{SessionID: sessionID, State: "idle", Progress: 40}, nil
				},
			}
			app := setupApp(svc, &MockDashboardService{}, stubPinger{})

			resp := doJSON(t, app, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				body := decode[map[string]any](t, resp)
				assert.Equal(t, tt.wantCode, body["code"])
			} else {
				body := decode[dto.SessionResponse](t, resp)
				assert.Equal(t, 40, body.Progress)
			}
		})
	}
}

func TestSurveyHandler_SessionIDOutlivesRequest(t *testing.T) {
	const otherSessionID = "01HGZ8VNRYXS8QKNJV5GRWPWDZ"
	var seen []string
	svc := &MockSurveyService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
			seen = append(seen, sessionID)
			return &dto.SessionResponse{SessionID: sessionID, State: "idle"}, nil
		},
	}
	app := setupApp(svc, &MockDashboardService{}, stubPinger{})

	resp := doJSON(t, app, http.MethodGet, "/api/sessions/"+testSessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for i := 0; i < 3; i++ {
		resp = doJSON(t, app, http.MethodGet, "/api/sessions/"+otherSessionID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	require.Len(t, seen, 4)
	assert.Equal(t, testSessionID, seen[0], "id kept by the service must not change with later requests")
	assert.Equal(t, otherSessionID, seen[3])
}

func TestSurveyHandler_SetField(t *testing.T) {
	var got *dto.SetFieldRequest
	svc := &MockSurveyService{
		SetFieldFunc: func(ctx context.Context, sessionID string, req *dto.SetFieldRequest) (*dto.SessionResponse, error) {
			got = req
			return &dto.SessionResponse{SessionID: sessionID, State: "idle"}, nil
		},
	}
	app := setupApp(svc, &MockDashboardService{}, stubPinger{})

	resp := doJSON(t, app, http.MethodPut, "/api/sessions/"+testSessionID+"/fields",
		map[string]any{"key": "q5_tools", "value": []string{"chatgpt", "copilot"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, "q5_tools", got.Key)
	assert.Equal(t, []any{"chatgpt", "copilot"}, got.Value)

	resp = doJSON(t, app, http.MethodPut, "/api/sessions/"+testSessionID+"/fields", map[string]any{"value": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+testSessionID+"/fields", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestSurveyHandler_SetFieldOnCompletedSession(t *testing.T) {
	svc := &MockSurveyService{
		SetFieldFunc: func(ctx context.Context, sessionID string, req *dto.SetFieldRequest) (*dto.SessionResponse, error) {
			return nil, domain.NewSurveyCompletedError(sessionID)
		},
	}
	app := setupApp(svc, &MockDashboardService{}, stubPinger{})

	resp := doJSON(t, app, http.MethodPut, "/api/sessions/"+testSessionID+"/fields", map[string]any{"key": "q2_department", "value": "Ops"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSurveyHandler_ToggleAndMatrix(t *testing.T) {
	svc := &MockSurveyService{
		ToggleOptionFunc: func(ctx context.Context, sessionID string, req *dto.ToggleOptionRequest) (*dto.SessionResponse, error) {
			return &dto.SessionResponse{SessionID: sessionID, Answers: map[string]any{req.QuestionID: []string{req.Value}}}, nil
		},
		SetMatrixRowFunc: func(ctx context.Context, sessionID string, req *dto.SetMatrixRowRequest) (*dto.SessionResponse, error) {
			if req.RowID == "unknown" {
				return nil, domain.NewInvalidInputError("unknown row")
			}
			return &dto.SessionResponse{SessionID: sessionID, Answers: map[string]any{req.QuestionID: map[string]string{req.RowID: req.Value}}}, nil
		},
	}
	app := setupApp(svc, &MockDashboardService{}, stubPinger{})

	resp := doJSON(t, app, http.MethodPost, "/api/sessions/"+testSessionID+"/options/toggle",
		dto.ToggleOptionRequest{QuestionID: "q9_barriers", Value: "time"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[dto.SessionResponse](t, resp)
	assert.Equal(t, []any{"time"}, body.Answers["q9_barriers"])

	resp = doJSON(t, app, http.MethodPost, "/api/sessions/"+testSessionID+"/options/toggle", dto.ToggleOptionRequest{QuestionID: "q9_barriers"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/sessions/"+testSessionID+"/matrix",
		dto.SetMatrixRowRequest{QuestionID: "q12_effectiveness", RowID: "sprints", Value: "4"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/sessions/"+testSessionID+"/matrix",
		dto.SetMatrixRowRequest{QuestionID: "q12_effectiveness", RowID: "unknown", Value: "4"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSurveyHandler_DerivedViews(t *testing.T) {
	svc := &MockSurveyService{
		ProgressFunc: func(ctx context.Context, sessionID string) (*dto.ProgressResponse, error) {
			return &dto.ProgressResponse{SessionID: sessionID, Progress: 75}, nil
		},
		ValidateFunc: func(ctx context.Context, sessionID string) (*dto.ValidationResponse, error) {
			return &dto.ValidationResponse{Valid: false, InvalidFields: []string{"q1_role"}, FirstInvalid: "q1_role"}, nil
		},
		PayloadPreviewFunc: func(ctx context.Context, sessionID string) (*dto.PayloadResponse, error) {
			return &dto.PayloadResponse{SessionID: sessionID, Columns: []dto.PayloadColumn{{Header: "Submitted At", Value: "6/1/2025, 2:30:00 PM"}}}, nil
		},
	}
	app := setupApp(svc, &MockDashboardService{}, stubPinger{})

	progress := decode[dto.ProgressResponse](t, doJSON(t, app, http.MethodGet, "/api/sessions/"+testSessionID+"/progress", nil))
	assert.Equal(t, 75, progress.Progress)

	validation := decode[dto.ValidationResponse](t, doJSON(t, app, http.MethodPost, "/api/sessions/"+testSessionID+"/validate", nil))
	assert.False(t, validation.Valid)
	assert.Equal(t, "q1_role", validation.FirstInvalid)

	payload := decode[dto.PayloadResponse](t, doJSON(t, app, http.MethodGet, "/api/sessions/"+testSessionID+"/payload", nil))
	require.Len(t, payload.Columns, 1)
	assert.Equal(t, "Submitted At", payload.Columns[0].Header)
}

func TestSurveyHandler_Submit(t *testing.T) {
	tests := []struct {
		name       string
		result     *dto.SubmitResponse
		err        error
		wantStatus int
		wantField  string
		wantValue  any
	}{
		{
			name:       "submitted",
			result:     &dto.SubmitResponse{Status: "submitted", State: "complete"},
			wantStatus: http.StatusOK, wantField: "status", wantValue: "submitted",
		},
		{
			name:       "invalid answers",
			result:     &dto.SubmitResponse{Status: "invalid", State: "idle", InvalidFields: []string{"q1_role"}, FirstInvalid: "q1_role"},
			wantStatus: http.StatusOK, wantField: "first_invalid", wantValue: "q1_role",
		},
		{
			name:       "delivery failed",
			result:     &dto.SubmitResponse{Status: "failed", State: "idle", Message: "There was a network error submitting the form. Please try again."},
			wantStatus: http.StatusOK, wantField: "message", wantValue: "There was a network error submitting the form. Please try again.",
		},
		{
			name:       "already complete",
			err:        domain.NewSurveyCompletedError(testSessionID),
			wantStatus: http.StatusConflict, wantField: "code", wantValue: "SURVEY_COMPLETED",
		},
		{
			name:       "unexpected error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError, wantField: "code", wantValue: "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockSurveyService{
				SubmitFunc: func(ctx context.Context, sessionID string) (*dto.SubmitResponse, error) {
					return tt.result, tt.err
				},
			}
			app := setupApp(svc, &MockDashboardService{}, stubPinger{})

			resp := doJSON(t, app, http.MethodPost, "/api/sessions/"+testSessionID+"/submit", nil)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decode[map[string]any](t, resp)
			assert.Equal(t, tt.wantValue, body[tt.wantField])
		})
	}
}

func TestSurveyHandler_Reset(t *testing.T) {
	svc := &MockSurveyService{
		ResetFunc: func(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
			return &dto.SessionResponse{SessionID: sessionID, State: "idle", InvalidFields: []string{}}, nil
		},
	}
	app := setupApp(svc, &MockDashboardService{}, stubPinger{})

	resp := doJSON(t, app, http.MethodPost, "/api/sessions/"+testSessionID+"/reset", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[dto.SessionResponse](t, resp)
	assert.Equal(t, "idle", body.State)
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	rows := int64(3)
	dash := &MockDashboardService{
		GetDashboardFunc: func(ctx context.Context) (*dto.DashboardResponse, error) {
			return &dto.DashboardResponse{Respondents: 150, RecordedRows: &rows, KPI: dto.KPIResponse{Participation: "142"}}, nil
		},
	}
	app := setupApp(&MockSurveyService{}, dash, stubPinger{})

	resp := doJSON(t, app, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[dto.DashboardResponse](t, resp)
	assert.Equal(t, "142", body.KPI.Participation)
	require.NotNil(t, body.RecordedRows)
	assert.Equal(t, int64(3), *body.RecordedRows)
}

func TestHealthHandler(t *testing.T) {
	app := setupApp(&MockSurveyService{}, &MockDashboardService{}, stubPinger{})
	body := decode[dto.HealthResponse](t, doJSON(t, app, http.MethodGet, "/api/health", nil))
	assert.Equal(t, dto.HealthResponse{Status: "ok", Storage: "up"}, body)

	app = setupApp(&MockSurveyService{}, &MockDashboardService{}, stubPinger{err: errors.New("down")})
	resp := doJSON(t, app, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "degraded", body.Storage)
}
