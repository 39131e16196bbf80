package extras

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

func (stubRepo) List(context.Context, shared.ListFilters) ([]Extra, int, error) {
	return []Extra{{ID: 1, Name: "Knee roll", Price: 4500}}, 1, nil
}

func (stubRepo) Get(_ context.Context, id int64) (Extra, error) {
	return Extra{ID: id, Name: "Knee roll", Price: 4500}, nil
}

func (stubRepo) Create(_ context.Context, e Extra) (Extra, error) {
	e.ID = 2
	return e, nil
}

func (stubRepo) Update(_ context.Context, id int64, e Extra) (Extra, error) {
	e.ID = id
	return e, nil
}

func (stubRepo) Delete(context.Context, int64) error { return nil }

func TestExtrasVisibleToStaffManagedByAdmin(t *testing.T) {
	h := NewHandler(slog.Default(), NewService(stubRepo{}, shared.Recorder{}), rbac.Middleware{})
	r := chi.NewRouter()
	r.Route("/extras", h.MountRoutes)

	do := func(method, path, body string, role rbac.Role) int {
		req := httptest.NewRequest(method, "/extras"+path, strings.NewReader(body))
		req = req.WithContext(rbac.WithUser(req.Context(), rbac.AuthenticatedUser{ID: 1, Username: "x", Role: role}))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	body := `{"name":"Monogram","price":2000}`

	for _, role := range []rbac.Role{rbac.RoleFitter, rbac.RoleSupplier, rbac.RoleAdmin, rbac.RoleSupervisor} {
		assert.Equal(t, http.StatusOK, do(http.MethodGet, "/", "", role), role)
	}
	assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/", "", rbac.RoleUser))

	assert.Equal(t, http.StatusForbidden, do(http.MethodPost, "/", body, rbac.RoleFitter))
	assert.Equal(t, http.StatusForbidden, do(http.MethodPut, "/1", body, rbac.RoleSupplier))
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "/", body, rbac.RoleAdmin))
	assert.Equal(t, http.StatusOK, do(http.MethodPut, "/1", body, rbac.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/1", "", rbac.RoleSupervisor))
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/", `{"name":"Negative","price":-1}`, rbac.RoleAdmin))
}
