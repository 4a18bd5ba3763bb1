package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/campuswatch/internal/auth"
	"github.com/jonesrussell/campuswatch/internal/database"
	"github.com/jonesrussell/campuswatch/internal/domain"
	"github.com/jonesrussell/campuswatch/internal/insights"
	"github.com/jonesrussell/campuswatch/internal/logger"
)

// UserStore is the user persistence surface the handlers need.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	ExistsByEmailOrRoll(ctx context.Context, email, rollNumber string) (bool, error)
	GetByEmailOrRoll(ctx context.Context, identifier string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ReportStore is the crime report persistence surface.
type ReportStore interface {
	Create(ctx context.Context, report *domain.CrimeReport) error
	List(ctx context.Context) ([]domain.CrimeReport, error)
	MapPoints(ctx context.Context) ([]domain.MapPoint, error)
}

// SOSStore is the SOS alert persistence surface.
type SOSStore interface {
	Create(ctx context.Context, alert *domain.SOSAlert) error
	List(ctx context.Context) ([]domain.SOSAlert, error)
}

// InsightsService serves the cached crime analysis.
type InsightsService interface {
	GetOrRefresh(ctx context.Context) *domain.CachedAnalysis
	ForceRefresh(ctx context.Context) *domain.CachedAnalysis
}

// Handler handles HTTP requests for the campuswatch API
type Handler struct {
	users    UserStore
	reports  ReportStore
	sos      SOSStore
	insights InsightsService
	jwt      *auth.JWTManager
	logger   logger.Logger
	version  string
}

// NewHandler creates a new API handler
func NewHandler(
	users UserStore,
	reports ReportStore,
	sos SOSStore,
	insightsSvc InsightsService,
	jwtManager *auth.JWTManager,
	log logger.Logger,
	version string,
) *Handler {
	return &Handler{
		users:    users,
		reports:  reports,
		sos:      sos,
		insights: insightsSvc,
		jwt:      jwtManager,
		logger:   log,
		version:  version,
	}
}

// Root handles GET /api/v1/
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "CampusWatch - Campus Crime Alert & Prevention API"})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "campuswatch",
		"version": h.version,
	})
}

// Signup handles POST /api/v1/auth/signup
func (h *Handler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.users.ExistsByEmailOrRoll(c.Request.Context(), req.Email, req.RollNumber)
	if err != nil {
		h.logger.Error("signup lookup failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user with this email or roll number already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hashing failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		RollNumber:   req.RollNumber,
		PasswordHash: hash,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.logger.Error("user creation failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	h.respondWithToken(c, user)
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmailOrRoll(c.Request.Context(), req.EmailOrRoll)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("login lookup failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.respondWithToken(c, user)
}

func (h *Handler) respondWithToken(c *gin.Context, user *domain.User) {
	token, err := h.jwt.GenerateToken(user.ID.String())
	if err != nil {
		h.logger.Error("token generation failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, domain.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.Info(),
	})
}

// CreateReport handles POST /api/v1/reports
func (h *Handler) CreateReport(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req domain.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := &domain.CrimeReport{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		CrimeType:   req.CrimeType,
		Location:    req.Location,
		Severity:    req.Severity,
		Status:      domain.ReportStatusPending,
		IsAnonymous: req.IsAnonymous,
	}
	if err := h.reports.Create(c.Request.Context(), report); err != nil {
		h.logger.Error("report creation failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// ListReports handles GET /api/v1/reports
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.reports.List(c.Request.Context())
	if err != nil {
		h.logger.Error("report listing failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// ReportMap handles GET /api/v1/reports/map
func (h *Handler) ReportMap(c *gin.Context) {
	points, err := h.reports.MapPoints(c.Request.Context())
	if err != nil {
		h.logger.Error("map data lookup failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load map data"})
		return
	}
	c.JSON(http.StatusOK, points)
}

// CreateSOS handles POST /api/v1/sos
func (h *Handler) CreateSOS(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req domain.CreateSOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.EmergencyType == "" {
		req.EmergencyType = "general"
	}

	alert := &domain.SOSAlert{
		ID:            uuid.New(),
		UserID:        userID,
		Location:      req.Location,
		EmergencyType: req.EmergencyType,
		Status:        domain.SOSStatusActive,
	}
	if err := h.sos.Create(c.Request.Context(), alert); err != nil {
		h.logger.Error("sos alert creation failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sos alert"})
		return
	}

	c.JSON(http.StatusCreated, alert)
}

// ListSOS handles GET /api/v1/sos
func (h *Handler) ListSOS(c *gin.Context) {
	alerts, err := h.sos.List(c.Request.Context())
	if err != nil {
		h.logger.Error("sos alert listing failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sos alerts"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// MockPredictions handles GET /api/v1/ai/predictions. It serves the fixed
// sample predictions without touching the news pipeline.
func (h *Handler) MockPredictions(c *gin.Context) {
	analysis := insights.MockAnalysis(time.Now().UTC())
	c.JSON(http.StatusOK, gin.H{"predictions": analysis.Predictions})
}

// GetInsights handles GET /api/v1/ai/insights
func (h *Handler) GetInsights(c *gin.Context) {
	c.JSON(http.StatusOK, h.insights.GetOrRefresh(c.Request.Context()))
}

// RefreshInsights handles POST /api/v1/ai/insights/refresh
func (h *Handler) RefreshInsights(c *gin.Context) {
	c.JSON(http.StatusOK, h.insights.ForceRefresh(c.Request.Context()))
}
