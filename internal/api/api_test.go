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
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/service"
)

const testSecret = "api-test-secret"

type stubAuth struct {
	service.AuthService
	requested []string
}

func (s *stubAuth) RequestMagicLink(_ context.Context, email string) error {
	if email != "sanne@example.org" {
		return service.ErrEmailNotApproved
	}
	s.requested = append(s.requested, email)
	return nil
}

func (s *stubAuth) Redeem(_ context.Context, token string) (string, *domain.Profile, error) {
	if token != "good.token" {
		return "", nil, service.ErrInvalidLink
	}
	return "jwt", &domain.Profile{ID: "s1", Username: "Sanne", Role: domain.RoleSwimmer}, nil
}

type stubTeam struct{ service.TeamService }

func (stubTeam) GetProfile(_ context.Context, id string) (*domain.Profile, error) {
	return &domain.Profile{ID: id, Username: "Sanne", Role: domain.RoleSwimmer}, nil
}

func (stubTeam) ListSwimmers(_ context.Context, _ service.Actor) ([]domain.Profile, error) {
	return []domain.Profile{{ID: "s1", Username: "Sanne", Role: domain.RoleSwimmer}}, nil
}

type stubDashboard struct{ service.DashboardService }

func (stubDashboard) Week(_ context.Context, actor service.Actor, swimmerID, ref string) (*service.WeekView, error) {
	if !actor.IsCoach() && actor.ID != swimmerID {
		return nil, service.ErrAccessDenied
	}
	if ref == "bad" {
		return nil, service.ErrValidation
	}
	return &service.WeekView{WeekStart: "2025-06-02", WeekEnd: "2025-06-08"}, nil
}

type stubPlans struct{ service.PlanService }

func (stubPlans) Get(context.Context, service.Actor, string) (*service.PlanView, error) {
	return nil, service.ErrPlanUnavailable
}

type stubExports struct{ service.ExportService }

func (stubExports) CSV(_ context.Context, _ service.Actor, _, kind, scope, _ string) (*service.ExportFile, error) {
	return &service.ExportFile{
		FileName:    kind + "_" + scope + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Body:        []byte("entry_date,resting_heart_rate\n2025-06-03,51"),
		Rows:        1,
	}, nil
}

func (stubExports) Archive(context.Context, service.Actor, string, string, string, string) (*service.ArchiveResponse, error) {
	return nil, service.ErrExportDisabled
}

type stubLog struct{ service.LogService }

func (stubLog) AddTraining(_ context.Context, actor service.Actor, in service.TrainingInput) (*domain.TrainingEntry, error) {
	return &domain.TrainingEntry{ID: "t1", UserID: actor.ID, Date: in.Date, DurationMinutes: in.DurationMinutes}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubAuth) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth := &stubAuth{}
	r := gin.New()
	SetupRoutes(r, testSecret, Services{
		Auth:      auth,
		Team:      stubTeam{},
		Log:       stubLog{},
		Dashboard: stubDashboard{},
		Plans:     stubPlans{},
		Exports:   stubExports{},
	}, logger.Nop())
	return r, auth
}

func bearer(t *testing.T, id string, role domain.Role, expires time.Time) string {
	t.Helper()
	claims := &service.Claims{
		UserID: id,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func do(r http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestPing(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	r, _ := newTestRouter(t)
	future := time.Now().Add(time.Hour)

	w := do(r, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/v1/me", "Token abc", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/v1/me", bearer(t, "s1", domain.RoleSwimmer, time.Now().Add(-time.Minute)), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token has expired", errorOf(t, w))

	w = do(r, http.MethodGet, "/api/v1/me", bearer(t, "s1", "admin", future), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/v1/me", bearer(t, "s1", domain.RoleSwimmer, future), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "s1", p.ID)
}

func TestMagicLinkRoutes(t *testing.T) {
	r, auth := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/auth/magic-link", "", gin.H{"email": "stranger@example.org"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "This email is not approved for access.", errorOf(t, w))

	w = do(r, http.MethodPost, "/api/v1/auth/magic-link", "", gin.H{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/auth/magic-link", "", gin.H{"email": "sanne@example.org"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"sanne@example.org"}, auth.requested)

	w = do(r, http.MethodGet, "/api/v1/auth/callback?token=used.token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/v1/auth/callback?token=good.token", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var s SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "jwt", s.Token)
	assert.Equal(t, "Sanne", s.Profile.Username)
}

func TestRoleMiddleware(t *testing.T) {
	r, _ := newTestRouter(t)
	future := time.Now().Add(time.Hour)

	w := do(r, http.MethodGet, "/api/v1/swimmers", bearer(t, "s1", domain.RoleSwimmer, future), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/api/v1/swimmers", bearer(t, "c1", domain.RoleCoach, future), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/v1/training", bearer(t, "c1", domain.RoleCoach, future), gin.H{"date": "2025-06-02"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWeekRoute_ErrorMapping(t *testing.T) {
	r, _ := newTestRouter(t)
	swimmer := bearer(t, "s1", domain.RoleSwimmer, time.Now().Add(time.Hour))

	w := do(r, http.MethodGet, "/api/v1/swimmers/s1/week?date=2025-06-04", swimmer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view service.WeekView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "2025-06-02", view.WeekStart)

	w = do(r, http.MethodGet, "/api/v1/swimmers/s2/week", swimmer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/api/v1/swimmers/s1/week?date=bad", swimmer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanRoute_Unavailable(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/v1/swimmers/s1/plan", bearer(t, "c1", domain.RoleCoach, time.Now().Add(time.Hour)), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no plan available", errorOf(t, w))
}

func TestPutPlan_RejectsNullBody(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/swimmers/s1/plan", bytes.NewBufferString("null"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "c1", domain.RoleCoach, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Plan must be a JSON object", errorOf(t, w))
}

func TestExportRoutes(t *testing.T) {
	r, _ := newTestRouter(t)
	auth := bearer(t, "s1", domain.RoleSwimmer, time.Now().Add(time.Hour))

	w := do(r, http.MethodGet, "/api/v1/swimmers/s1/export/rhr?scope=all", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="rhr_all.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "entry_date,resting_heart_rate\n2025-06-03,51", w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/swimmers/s1/export/rhr", auth, nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestCreateTraining(t *testing.T) {
	r, _ := newTestRouter(t)
	auth := bearer(t, "s1", domain.RoleSwimmer, time.Now().Add(time.Hour))

	w := do(r, http.MethodPost, "/api/v1/training", auth, gin.H{"date": "2025-06-02", "durationMinutes": 60})
	require.Equal(t, http.StatusCreated, w.Code)
	var e domain.TrainingEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "s1", e.UserID)
	assert.Equal(t, 60, e.DurationMinutes)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/training", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
