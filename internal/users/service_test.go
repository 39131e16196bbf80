package users

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

type memRepo struct {
	users  map[int64]User
	hashes map[int64]string
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[int64]User{}, hashes: map[int64]string{}}
}

func (m *memRepo) ListUsers(_ context.Context, f ListFilters) ([]User, int, error) {
	var out []User
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *memRepo) GetUser(_ context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (m *memRepo) CreateUser(_ context.Context, u User, hash string) (User, error) {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return User{}, shared.ErrDuplicate
		}
	}
	m.nextID++
	u.ID, u.IsActive = m.nextID, true
	m.users[u.ID] = u
	m.hashes[u.ID] = hash
	return u, nil
}

func (m *memRepo) UpdateUser(_ context.Context, id int64, u User) (User, error) {
	if _, ok := m.users[id]; !ok {
		return User{}, shared.ErrNotFound
	}
	m.users[id] = u
	return u, nil
}

func (m *memRepo) SetRole(_ context.Context, id int64, role rbac.Role) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.Role = role
	m.users[id] = u
	return nil
}

func (m *memRepo) SetPasswordHash(_ context.Context, id int64, hash string) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	m.hashes[id] = hash
	return nil
}

func (m *memRepo) DeleteUser(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func setup(t *testing.T) (*Service, *memRepo, *shared.SessionStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := shared.NewSessionStore(client, time.Hour)
	repo := newMemRepo()
	svc := NewService(repo, sessions, nil, nil)
	svc.cost = bcrypt.MinCost
	return svc, repo, sessions
}

func supervisorCtx() context.Context {
	return rbac.WithUser(context.Background(), rbac.AuthenticatedUser{ID: 100, Username: "sam", Role: rbac.RoleSupervisor})
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, repo, _ := setup(t)
	u, err := svc.CreateUser(supervisorCtx(), CreateInput{Username: " Jane.Fitter", FullName: "Jane", Role: "fitter", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "jane.fitter", u.Username)
	assert.Equal(t, rbac.RoleFitter, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[u.ID]), []byte("longenough")))

	_, err = svc.CreateUser(supervisorCtx(), CreateInput{Username: "x", FullName: "X", Role: "ROOT", Password: "short"})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "role")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "username")
}

func TestAssignRoleRevokesSessions(t *testing.T) {
	svc, _, sessions := setup(t)
	ctx := supervisorCtx()
	u, err := svc.CreateUser(ctx, CreateInput{Username: "bob", FullName: "Bob", Role: "USER", Password: "longenough"})
	require.NoError(t, err)

	sid, err := sessions.Open(context.Background(), u.ID)
	require.NoError(t, err)

	require.NoError(t, svc.AssignRole(ctx, u.ID, RoleInput{Role: "admin"}))
	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleAdmin, got.Role)

	active, err := sessions.Active(context.Background(), sid)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSelfProtection(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := supervisorCtx()
	assert.ErrorIs(t, svc.AssignRole(ctx, 100, RoleInput{Role: "USER"}), shared.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteUser(ctx, 100), shared.ErrForbidden)
}

func TestDeactivateRevokesSessions(t *testing.T) {
	svc, _, sessions := setup(t)
	ctx := supervisorCtx()
	u, err := svc.CreateUser(ctx, CreateInput{Username: "carol", FullName: "Carol", Role: "SUPPLIER", Password: "longenough"})
	require.NoError(t, err)
	sid, err := sessions.Open(context.Background(), u.ID)
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateUser(ctx, u.ID, UpdateInput{FullName: "Carol B", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	active, err := sessions.Active(context.Background(), sid)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestResetPassword(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := supervisorCtx()
	u, err := svc.CreateUser(ctx, CreateInput{Username: "dan", FullName: "Dan", Role: "USER", Password: "longenough"})
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, u.ID, PasswordInput{Password: "brand-new-pass"}))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[u.ID]), []byte("brand-new-pass")))
	assert.ErrorIs(t, svc.ResetPassword(ctx, 999, PasswordInput{Password: "brand-new-pass"}), shared.ErrNotFound)
}
