package warehouses

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

type stubRepo struct {
	Repository
}

func (stubRepo) List(context.Context, shared.ListFilters) ([]Warehouse, int, error) {
	return []Warehouse{{ID: 1, Code: "DUB", Name: "Dublin"}}, 1, nil
}

func (stubRepo) Create(_ context.Context, wh Warehouse) (Warehouse, error) {
	wh.ID = 2
	return wh, nil
}

func TestWarehouseMutationsAreSupervisorOnly(t *testing.T) {
	h := NewHandler(slog.Default(), NewService(stubRepo{}, shared.Recorder{}), rbac.Middleware{})
	r := chi.NewRouter()
	r.Route("/warehouses", h.MountRoutes)

	do := func(method, body string, role rbac.Role) int {
		req := httptest.NewRequest(method, "/warehouses/", strings.NewReader(body))
		req = req.WithContext(rbac.WithUser(req.Context(), rbac.AuthenticatedUser{ID: 1, Username: "x", Role: role}))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	body := `{"code":"gal","name":"Galway","country_code":"ie"}`
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "", rbac.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, do(http.MethodPost, body, rbac.RoleAdmin))
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, body, rbac.RoleSupervisor))
	assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "", rbac.RoleFitter))
}
