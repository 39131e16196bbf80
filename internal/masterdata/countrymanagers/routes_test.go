package countrymanagers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	"github.com/saddlefit/oms/internal/rbac"
)

type stubRepo struct{}

func (stubRepo) List(context.Context, shared.ListFilters) ([]CountryManager, int, error) {
	return []CountryManager{{ID: 1, Name: "Aoife Byrne", CountryCode: "IE"}}, 1, nil
}

func (stubRepo) Get(_ context.Context, id int64) (CountryManager, error) {
	return CountryManager{ID: id, Name: "Aoife Byrne", CountryCode: "IE"}, nil
}

func (stubRepo) Create(_ context.Context, cm CountryManager) (CountryManager, error) {
	cm.ID = 2
	return cm, nil
}

func (stubRepo) Update(_ context.Context, id int64, cm CountryManager) (CountryManager, error) {
	cm.ID = id
	return cm, nil
}

func (stubRepo) Delete(context.Context, int64) error { return nil }

func TestCountryManagersAreSupervisorOnly(t *testing.T) {
	h := NewHandler(slog.Default(), NewService(stubRepo{}, shared.Recorder{}), rbac.Middleware{})
	r := chi.NewRouter()
	r.Route("/country-managers", h.MountRoutes)

	do := func(method, path, body string, role rbac.Role) int {
		req := httptest.NewRequest(method, "/country-managers"+path, strings.NewReader(body))
		req = req.WithContext(rbac.WithUser(req.Context(), rbac.AuthenticatedUser{ID: 1, Username: "x", Role: role}))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	body := `{"name":"Lena Vogel","email":"lena@example.com","country_code":"de"}`
	for _, role := range []rbac.Role{rbac.RoleAdmin, rbac.RoleFitter, rbac.RoleSupplier, rbac.RoleUser} {
		assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/", "", role), role)
		assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/1", "", role), role)
		assert.Equal(t, http.StatusForbidden, do(http.MethodPost, "/", body, role), role)
		assert.Equal(t, http.StatusForbidden, do(http.MethodPut, "/1", body, role), role)
		assert.Equal(t, http.StatusForbidden, do(http.MethodDelete, "/1", "", role), role)
	}

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/", "", rbac.RoleSupervisor))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/1", "", rbac.RoleSupervisor))
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "/", body, rbac.RoleSupervisor))
	assert.Equal(t, http.StatusOK, do(http.MethodPut, "/1", body, rbac.RoleSupervisor))
	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/1", "", rbac.RoleSupervisor))
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/", `{"name":"No Mail","country_code":"de"}`, rbac.RoleSupervisor))
}
