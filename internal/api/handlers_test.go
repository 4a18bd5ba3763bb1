package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/campuswatch/internal/auth"
	"github.com/jonesrussell/campuswatch/internal/database"
	"github.com/jonesrussell/campuswatch/internal/domain"
	"github.com/jonesrussell/campuswatch/internal/logger"
)

type memoryUserStore struct {
	users []domain.User
}

func (m *memoryUserStore) Create(_ context.Context, user *domain.User) error {
	user.CreatedAt = time.Now().UTC()
	m.users = append(m.users, *user)
	return nil
}

func (m *memoryUserStore) ExistsByEmailOrRoll(_ context.Context, email, rollNumber string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email || u.RollNumber == rollNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserStore) GetByEmailOrRoll(_ context.Context, identifier string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == identifier || u.RollNumber == identifier {
			user := u
			return &user, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (m *memoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, database.ErrUserNotFound
}

type memoryReportStore struct {
	reports []domain.CrimeReport
}

func (m *memoryReportStore) Create(_ context.Context, report *domain.CrimeReport) error {
	report.CreatedAt = time.Now().UTC()
	m.reports = append(m.reports, *report)
	return nil
}

func (m *memoryReportStore) List(_ context.Context) ([]domain.CrimeReport, error) {
	return m.reports, nil
}

func (m *memoryReportStore) MapPoints(_ context.Context) ([]domain.MapPoint, error) {
	points := make([]domain.MapPoint, 0, len(m.reports))
	for _, r := range m.reports {
		points = append(points, domain.MapPoint{
			ID:       r.ID,
			Type:     r.CrimeType,
			Location: r.Location,
			Severity: r.Severity,
			Title:    r.Title,
		})
	}
	return points, nil
}

type memorySOSStore struct {
	alerts []domain.SOSAlert
}

func (m *memorySOSStore) Create(_ context.Context, alert *domain.SOSAlert) error {
	alert.CreatedAt = time.Now().UTC()
	m.alerts = append(m.alerts, *alert)
	return nil
}

func (m *memorySOSStore) List(_ context.Context) ([]domain.SOSAlert, error) {
	return m.alerts, nil
}

type stubInsights struct {
	analysis  *domain.CachedAnalysis
	refreshes int
}

func (s *stubInsights) GetOrRefresh(_ context.Context) *domain.CachedAnalysis {
	return s.analysis
}

func (s *stubInsights) ForceRefresh(_ context.Context) *domain.CachedAnalysis {
	s.refreshes++
	return s.analysis
}

type testEnv struct {
	router   *gin.Engine
	users    *memoryUserStore
	reports  *memoryReportStore
	sos      *memorySOSStore
	insights *stubInsights
	jwt      *auth.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:   &memoryUserStore{},
		reports: &memoryReportStore{},
		sos:     &memorySOSStore{},
		insights: &stubInsights{analysis: &domain.CachedAnalysis{
			SafetyTips:   []string{"Stay alert and trust your instincts"},
			ArticleCount: 4,
			GeneratedAt:  time.Now().UTC(),
		}},
		jwt: auth.NewJWTManager("test-secret", time.Hour),
	}

	handler := NewHandler(env.users, env.reports, env.sos, env.insights, env.jwt, logger.NewNop(), "test")
	env.router = gin.New()
	SetupRoutes(env.router, handler, env.jwt, nil)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) signup(t *testing.T) (string, domain.UserInfo) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/auth/signup", "", domain.SignupRequest{
		Name:       "Asha Verma",
		Email:      "asha@example.edu",
		Phone:      "5550100",
		RollNumber: "CS2026-042",
		Password:   "sufficiently-long",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup status = %d, body %s", w.Code, w.Body.String())
	}

	var resp domain.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	return resp.AccessToken, resp.User
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	token, user := env.signup(t)
	if token == "" {
		t.Fatal("signup should return an access token")
	}
	if user.Email != "asha@example.edu" || user.RollNumber != "CS2026-042" {
		t.Errorf("unexpected user info: %+v", user)
	}

	// Duplicate email is rejected.
	w := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", domain.SignupRequest{
		Name:       "Other",
		Email:      "asha@example.edu",
		Phone:      "5550101",
		RollNumber: "CS2026-043",
		Password:   "sufficiently-long",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup status = %d, want 400", w.Code)
	}

	// Login by roll number works.
	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{
		EmailOrRoll: "CS2026-042",
		Password:    "sufficiently-long",
	})
	if w.Code != http.StatusOK {
		t.Errorf("login status = %d, body %s", w.Code, w.Body.String())
	}

	// Wrong password is rejected.
	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{
		EmailOrRoll: "asha@example.edu",
		Password:    "not-the-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}
}

func TestSignup_RejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", domain.SignupRequest{
		Name:       "Asha Verma",
		Email:      "asha@example.edu",
		Phone:      "5550100",
		RollNumber: "CS2026-042",
		Password:   "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("signup status = %d, want 400 for short password", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/reports", "/api/v1/sos", "/api/v1/ai/insights"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token status = %d, want 401", path, w.Code)
		}
	}

	w := env.do(t, http.MethodGet, "/api/v1/reports", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("malformed token status = %d, want 401", w.Code)
	}
}

func TestCreateAndListReports(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.signup(t)

	w := env.do(t, http.MethodPost, "/api/v1/reports", token, domain.CreateReportRequest{
		Title:       "Bike stolen near library",
		Description: "Locked bike taken overnight",
		CrimeType:   "theft",
		Location:    domain.Location{Lat: 12.82, Lng: 80.04, Address: "Main Library"},
		Severity:    "medium",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create report status = %d, body %s", w.Code, w.Body.String())
	}

	var report domain.CrimeReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Status != domain.ReportStatusPending {
		t.Errorf("report.Status = %q, want pending", report.Status)
	}
	if report.UserID != user.ID {
		t.Errorf("report.UserID = %v, want %v", report.UserID, user.ID)
	}

	w = env.do(t, http.MethodGet, "/api/v1/reports", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list reports status = %d", w.Code)
	}
	var reports []domain.CrimeReport
	if err := json.Unmarshal(w.Body.Bytes(), &reports); err != nil {
		t.Fatalf("decode reports: %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("got %d reports, want 1", len(reports))
	}

	w = env.do(t, http.MethodGet, "/api/v1/reports/map", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("map status = %d", w.Code)
	}
	var points []domain.MapPoint
	if err := json.Unmarshal(w.Body.Bytes(), &points); err != nil {
		t.Fatalf("decode map points: %v", err)
	}
	if len(points) != 1 || points[0].Type != "theft" {
		t.Errorf("unexpected map points: %+v", points)
	}
}

func TestCreateReport_RejectsBadSeverity(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t)

	w := env.do(t, http.MethodPost, "/api/v1/reports", token, domain.CreateReportRequest{
		Title:       "Bike stolen",
		Description: "desc",
		CrimeType:   "theft",
		Location:    domain.Location{Lat: 1, Lng: 2},
		Severity:    "catastrophic",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for invalid severity", w.Code)
	}
}

func TestCreateSOS_DefaultsEmergencyType(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t)

	w := env.do(t, http.MethodPost, "/api/v1/sos", token, domain.CreateSOSRequest{
		Location: domain.Location{Lat: 12.82, Lng: 80.04},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create sos status = %d, body %s", w.Code, w.Body.String())
	}

	var alert domain.SOSAlert
	if err := json.Unmarshal(w.Body.Bytes(), &alert); err != nil {
		t.Fatalf("decode alert: %v", err)
	}
	if alert.EmergencyType != "general" {
		t.Errorf("EmergencyType = %q, want general", alert.EmergencyType)
	}
	if alert.Status != domain.SOSStatusActive {
		t.Errorf("Status = %q, want active", alert.Status)
	}
}

func TestMockPredictionsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t)

	w := env.do(t, http.MethodGet, "/api/v1/ai/predictions", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Predictions []domain.CrimePrediction `json:"predictions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Predictions) != 3 {
		t.Fatalf("got %d predictions, want 3", len(resp.Predictions))
	}
	if resp.Predictions[0].CrimeType != "theft" {
		t.Errorf("first prediction CrimeType = %q, want theft", resp.Predictions[0].CrimeType)
	}
}

func TestInsightsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t)

	w := env.do(t, http.MethodGet, "/api/v1/ai/insights", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("insights status = %d", w.Code)
	}
	var analysis domain.CachedAnalysis
	if err := json.Unmarshal(w.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	if analysis.ArticleCount != 4 {
		t.Errorf("ArticleCount = %d, want 4", analysis.ArticleCount)
	}

	w = env.do(t, http.MethodPost, "/api/v1/ai/insights/refresh", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d", w.Code)
	}
	if env.insights.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", env.insights.refreshes)
	}
}

func TestHealthAndBanner(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("banner status = %d", w.Code)
	}
}
