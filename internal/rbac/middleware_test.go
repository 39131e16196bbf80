package rbac

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type denialCounter struct {
	calls []string
}

func (d *denialCounter) RecordDenial(key, role string) {
	d.calls = append(d.calls, role+":"+key)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func serve(t *testing.T, h http.Handler, user *AuthenticatedUser) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if user != nil {
		req = req.WithContext(WithUser(req.Context(), *user))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRequirePermission(t *testing.T) {
	denials := &denialCounter{}
	mw := Middleware{Denials: denials}
	h := mw.RequirePermission(PermMySaddleStock)(okHandler)

	assert.Equal(t, http.StatusUnauthorized, serve(t, h, nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(t, h, &AuthenticatedUser{ID: 1, Username: "jane", Role: RoleFitter}).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, h, &AuthenticatedUser{ID: 2, Username: "sam", Role: RoleSupervisor}).Code)
	assert.Equal(t, []string{"SUPERVISOR:MY_SADDLE_STOCK"}, denials.calls)
}

func TestRequirePermissionAnyOf(t *testing.T) {
	h := Middleware{}.RequirePermission(PermUserManagement, PermOrders)(okHandler)
	assert.Equal(t, http.StatusNoContent, serve(t, h, &AuthenticatedUser{Role: RoleSupplier}).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, h, &AuthenticatedUser{Role: RoleUser}).Code)
}

func TestRequireRole(t *testing.T) {
	h := Middleware{}.RequireRole(RoleFitter)(okHandler)
	assert.Equal(t, http.StatusNoContent, serve(t, h, &AuthenticatedUser{Role: RoleAdmin}).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, h, &AuthenticatedUser{Role: RoleSupplier}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(t, h, nil).Code)
}

func TestPermissionsHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/permissions", NewPermissionsHandler(Middleware{}).MountRoutes)

	rr := serve(t, r, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/permissions/me", nil)
	req = req.WithContext(WithUser(req.Context(), AuthenticatedUser{ID: 3, Username: "jane", Role: RoleFitter}))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Role    Role            `json:"role"`
		Screens map[string]bool `json:"screens"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, RoleFitter, body.Role)
	assert.True(t, body.Screens["MY_SADDLE_STOCK"])
	assert.False(t, body.Screens["USER_MANAGEMENT"])

	req = httptest.NewRequest(http.MethodGet, "/permissions/", nil)
	req = req.WithContext(WithUser(req.Context(), AuthenticatedUser{Role: RoleAdmin}))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/permissions/", nil)
	req = req.WithContext(WithUser(req.Context(), AuthenticatedUser{Role: RoleSupervisor}))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []struct {
		Key   string   `json:"key"`
		Roles []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, len(Keys()))
}
