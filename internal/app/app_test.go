package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saddlefit/oms/internal/auth"
	"github.com/saddlefit/oms/internal/observability"
	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

type stubAuthenticator struct {
	users map[string]rbac.AuthenticatedUser
}

func (s stubAuthenticator) Login(context.Context, string, string) (*auth.Session, error) {
	return nil, shared.ErrInvalidCredentials
}

func (s stubAuthenticator) Verify(_ context.Context, raw string) (rbac.AuthenticatedUser, string, error) {
	u, ok := s.users[raw]
	if !ok {
		return rbac.AuthenticatedUser{}, "", errors.New("bad token")
	}
	return u, "sid-" + raw, nil
}

func (s stubAuthenticator) Logout(context.Context, string) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics()
	mw := rbac.Middleware{Logger: slog.Default(), Denials: metrics}
	authn := stubAuthenticator{users: map[string]rbac.AuthenticatedUser{
		"admin-token":  {ID: 1, Username: "ada", Role: rbac.RoleAdmin},
		"fitter-token": {ID: 2, Username: "jane.fitter", Role: rbac.RoleFitter},
	}}
	cfg := &Config{AppEnv: "test", RateLimitPerMinute: 1000, AppRequestTimeout: time.Second, CORSAllowedOrigins: []string{"http://ui.test"}}
	return NewRouter(RouterParams{
		Logger:             slog.Default(),
		Config:             cfg,
		Metrics:            metrics,
		AuthHandler:        auth.NewHandler(authn, slog.Default()),
		Authenticator:      authn,
		PermissionsHandler: rbac.NewPermissionsHandler(mw),
	}), metrics
}

func do(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthzWithoutBackends(t *testing.T) {
	h, _ := newTestRouter(t)
	rr := do(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body healthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "skipped", body.Postgres)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestAuthenticatedGroupRequiresToken(t *testing.T) {
	h, _ := newTestRouter(t)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/permissions/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/permissions/me", "forged").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/permissions/me", "fitter-token").Code)
}

func TestPermissionTableDeniedForAdmin(t *testing.T) {
	h, metrics := newTestRouter(t)
	rr := do(h, http.MethodGet, "/permissions/", "admin-token")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	scrape := do(metrics.Handler(), http.MethodGet, "/metrics", "")
	assert.Contains(t, scrape.Body.String(), `oms_permission_denials_total{key="USER_MANAGEMENT",role="ADMIN"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/orders", nil)
	req.Header.Set("Origin", "http://ui.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// Browsers send the requested header names lowercased and comma separated.
	req.Header.Set("Access-Control-Request-Headers", "authorization,idempotency-key")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "http://ui.test", rr.Header().Get("Access-Control-Allow-Origin"))
	allowed := strings.ToLower(rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, allowed, "idempotency-key")
}

func TestLoadConfigRequiresLongSecret(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "short")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("AUTH_TOKEN_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "debug")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 72*time.Hour, cfg.IdempotencyRetention)
	assert.Equal(t, slog.LevelDebug, parseLevel(cfg.LogLevel))
}

func TestTestModeFlag(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	assert.True(t, InTestMode())
	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	assert.False(t, InTestMode())
}
