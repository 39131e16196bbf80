package customers

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

func (stubRepo) List(context.Context, shared.ListFilters) ([]Customer, int, error) {
	return []Customer{{ID: 1, Name: "Anna Rider"}}, 1, nil
}

func (stubRepo) Get(_ context.Context, id int64) (Customer, error) {
	return Customer{ID: id, Name: "Anna Rider"}, nil
}

func (stubRepo) Create(_ context.Context, c Customer) (Customer, error) {
	c.ID = 2
	return c, nil
}

func (stubRepo) Update(_ context.Context, id int64, c Customer) (Customer, error) {
	c.ID = id
	return c, nil
}

func (stubRepo) Delete(context.Context, int64) error { return nil }

func TestCustomerRoutesByRole(t *testing.T) {
	h := NewHandler(slog.Default(), NewService(stubRepo{}, shared.Recorder{}), rbac.Middleware{})
	r := chi.NewRouter()
	r.Route("/customers", h.MountRoutes)

	do := func(method, path, body string, role rbac.Role) int {
		req := httptest.NewRequest(method, "/customers"+path, strings.NewReader(body))
		req = req.WithContext(rbac.WithUser(req.Context(), rbac.AuthenticatedUser{ID: 1, Username: "x", Role: role}))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	body := `{"name":"Bea Hall","email":"bea@example.com","horse_name":"Comet"}`

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/", "", rbac.RoleFitter))
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "/", body, rbac.RoleFitter))
	assert.Equal(t, http.StatusOK, do(http.MethodPut, "/1", body, rbac.RoleFitter))
	assert.Equal(t, http.StatusForbidden, do(http.MethodDelete, "/1", "", rbac.RoleFitter))

	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/1", "", rbac.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/1", "", rbac.RoleSupervisor))

	assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/", "", rbac.RoleSupplier))
	assert.Equal(t, http.StatusForbidden, do(http.MethodPost, "/", body, rbac.RoleUser))
}
