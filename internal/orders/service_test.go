package orders

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

type memRepo struct {
	mu         sync.Mutex
	orders     map[int64]*Order
	extras     map[int64][]OrderExtra
	keys       map[string]int64 // "createdBy/key"
	fitters    map[string]int64
	presets    map[int64]PresetRef
	catalogue  map[int64]ExtraRef
	nextID     int64
	lastFilter ListFilters
}

func newMemRepo() *memRepo {
	return &memRepo{
		orders:  map[int64]*Order{},
		extras:  map[int64][]OrderExtra{},
		keys:    map[string]int64{},
		fitters: map[string]int64{"jane.fitter": 7, "bob.fitter": 8},
		presets: map[int64]PresetRef{
			1: {ID: 1, SupplierID: 3, BasePrice: 250000, SeatSize: "17.5", Color: "brown"},
		},
		catalogue: map[int64]ExtraRef{
			10: {ID: 10, Name: "Knee roll", Price: 4500},
			11: {ID: 11, Name: "Monogram", Price: 2000},
		},
	}
}

func (m *memRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *memRepo) Get(_ context.Context, id int64) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) Extras(_ context.Context, id int64) ([]OrderExtra, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]OrderExtra{}, m.extras[id]...), nil
}

func (m *memRepo) FindByIdempotencyKey(ctx context.Context, createdBy int64, key string) (*Order, error) {
	id, ok := m.keys[fmt.Sprintf("%d/%s", createdBy, key)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return m.Get(ctx, id)
}

func (m *memRepo) List(_ context.Context, f ListFilters) ([]Order, int, error) {
	m.lastFilter = f
	var out []Order
	for _, o := range m.orders {
		if f.FitterUsername != nil && o.FitterUsername != *f.FitterUsername {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *memRepo) Create(_ context.Context, o Order, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	o.ID = m.nextID
	for name, id := range m.fitters {
		if id == o.FitterID {
			o.FitterUsername = name
		}
	}
	m.orders[o.ID] = &o
	if key != "" {
		m.keys[fmt.Sprintf("%d/%s", o.CreatedBy, key)] = o.ID
	}
	return o.ID, nil
}

func (m *memRepo) Update(_ context.Context, id int64, o Order) error {
	if _, ok := m.orders[id]; !ok {
		return shared.ErrNotFound
	}
	o.ID = id
	m.orders[id] = &o
	return nil
}

func (m *memRepo) ReplaceExtras(_ context.Context, id int64, extras []OrderExtra) error {
	m.extras[id] = extras
	return nil
}

func (m *memRepo) UpdateStatus(_ context.Context, c StatusChange) error {
	o, ok := m.orders[c.OrderID]
	if !ok || o.Status != c.From {
		return shared.ErrConflict
	}
	o.Status = c.To
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *memRepo) Preset(_ context.Context, id int64) (PresetRef, error) {
	p, ok := m.presets[id]
	if !ok {
		return PresetRef{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memRepo) ExtraPrices(_ context.Context, ids []int64) (map[int64]ExtraRef, error) {
	out := map[int64]ExtraRef{}
	for _, id := range ids {
		if e, ok := m.catalogue[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (m *memRepo) FitterIDByUsername(_ context.Context, username string) (int64, error) {
	id, ok := m.fitters[username]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return id, nil
}

type memIdem struct{ seen map[string]bool }

func (m *memIdem) CheckAndInsert(_ context.Context, key, module string) error {
	if m.seen[module+"|"+key] {
		return shared.ErrIdempotencyConflict
	}
	m.seen[module+"|"+key] = true
	return nil
}

func (m *memIdem) Delete(_ context.Context, key, module string) error {
	delete(m.seen, module+"|"+key)
	return nil
}

type notifySpy struct{ events []Event }

func (n *notifySpy) NotifyOrder(_ context.Context, e Event) error {
	n.events = append(n.events, e)
	return nil
}

type auditSpy struct{ actions []string }

func (a *auditSpy) Record(_ context.Context, l shared.AuditLog) error {
	a.actions = append(a.actions, l.Action)
	return nil
}

var (
	jane  = rbac.AuthenticatedUser{ID: 1, Username: "jane.fitter", Role: rbac.RoleFitter}
	admin = rbac.AuthenticatedUser{ID: 2, Username: "ada", Role: rbac.RoleAdmin}
	sup   = rbac.AuthenticatedUser{ID: 3, Username: "saddlery", Role: rbac.RoleSupplier}
	boss  = rbac.AuthenticatedUser{ID: 4, Username: "sam", Role: rbac.RoleSupervisor}
)

func as(u rbac.AuthenticatedUser) context.Context {
	return rbac.WithUser(context.Background(), u)
}

type fixture struct {
	svc    *Service
	repo   *memRepo
	notify *notifySpy
	audit  *auditSpy
}

func newFixture() fixture {
	repo := newMemRepo()
	notify := &notifySpy{}
	audit := &auditSpy{}
	svc := NewService(repo, &memIdem{seen: map[string]bool{}}, audit, notify, slog.Default())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return fixture{svc: svc, repo: repo, notify: notify, audit: audit}
}

func TestListScopesFitter(t *testing.T) {
	fx := newFixture()
	_, _, err := fx.svc.List(as(jane), ListFilters{})
	require.NoError(t, err)
	require.NotNil(t, fx.repo.lastFilter.FitterUsername)
	assert.Equal(t, "jane.fitter", *fx.repo.lastFilter.FitterUsername)

	_, _, err = fx.svc.List(as(admin), ListFilters{})
	require.NoError(t, err)
	assert.Nil(t, fx.repo.lastFilter.FitterUsername)

	_, _, err = fx.svc.List(as(boss), ListFilters{})
	require.NoError(t, err)
	assert.Nil(t, fx.repo.lastFilter.FitterUsername)
}

func TestListLookupFailureInjectsNothing(t *testing.T) {
	fx := newFixture()
	fx.svc.SetCurrentUserFunc(func(context.Context) (rbac.AuthenticatedUser, error) {
		return rbac.AuthenticatedUser{}, errors.New("session store down")
	})
	_, _, err := fx.svc.List(context.Background(), ListFilters{})
	require.NoError(t, err)
	assert.Nil(t, fx.repo.lastFilter.FitterUsername)
}

func TestCreateByFitterUsesOwnProfileAndPrices(t *testing.T) {
	fx := newFixture()
	preset := int64(1)
	order, replayed, err := fx.svc.Create(as(jane), CreateOrderRequest{
		CustomerID: 5,
		FitterID:   0,
		PresetID:   &preset,
		Currency:   "eur",
		Extras:     []ExtraLine{{ExtraID: 10, Quantity: 2}, {ExtraID: 11, Quantity: 1}, {ExtraID: 10, Quantity: 1}},
	}, "")
	require.NoError(t, err)
	assert.False(t, replayed)

	assert.Equal(t, int64(7), order.FitterID)
	assert.Equal(t, int64(3), order.SupplierID)
	assert.Equal(t, "EUR", order.Currency)
	assert.Equal(t, StatusDraft, order.Status)
	assert.Equal(t, "17.5", order.SeatSize)
	assert.Equal(t, int64(250000), order.BasePrice)
	assert.Equal(t, int64(3*4500+2000), order.ExtrasTotal)
	assert.Equal(t, int64(250000+3*4500+2000), order.Total)
	require.Len(t, order.Extras, 2)
	assert.Equal(t, 3, order.Extras[0].Quantity)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "SO-20260301-"))

	require.Len(t, fx.notify.events, 1)
	assert.Equal(t, EventCreated, fx.notify.events[0].Kind)
	assert.Equal(t, []string{shared.AuditCreate}, fx.audit.actions)
}

func TestCreateRejections(t *testing.T) {
	fx := newFixture()
	price := int64(100000)

	_, _, err := fx.svc.Create(as(jane), CreateOrderRequest{CustomerID: 5, FitterID: 8, SupplierID: 3, BasePrice: &price, Currency: "EUR"}, "")
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, _, err = fx.svc.Create(as(admin), CreateOrderRequest{CustomerID: 5, SupplierID: 3, BasePrice: &price, Currency: "EUR"}, "")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, _, err = fx.svc.Create(as(admin), CreateOrderRequest{CustomerID: 5, FitterID: 7, SupplierID: 3, Currency: "EUR"}, "")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, _, err = fx.svc.Create(as(admin), CreateOrderRequest{CustomerID: 5, FitterID: 7, SupplierID: 3, BasePrice: &price, Currency: "EUR",
		Extras: []ExtraLine{{ExtraID: 99, Quantity: 1}}}, "")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, _, err = fx.svc.Create(context.Background(), CreateOrderRequest{}, "")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestCreateIdempotencyReplay(t *testing.T) {
	fx := newFixture()
	price := int64(100000)
	req := CreateOrderRequest{CustomerID: 5, FitterID: 7, SupplierID: 3, BasePrice: &price, Currency: "GBP", Submit: true}

	first, replayed, err := fx.svc.Create(as(admin), req, "key-1")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, StatusOrdered, first.Status)

	second, replayed, err := fx.svc.Create(as(admin), req, "key-1")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fx.repo.orders, 1)
	assert.Len(t, fx.notify.events, 1)
}

func TestCreateFailureReleasesIdempotencyKey(t *testing.T) {
	fx := newFixture()
	idem := &memIdem{seen: map[string]bool{}}
	fx.svc.idem = idem
	price := int64(100000)

	_, _, err := fx.svc.Create(as(admin), CreateOrderRequest{CustomerID: 5, FitterID: 7, BasePrice: &price, Currency: "GBP"}, "key-2")
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, idem.seen)
}

func TestIdempotencyKeysAreScopedToCaller(t *testing.T) {
	fx := newFixture()
	price := int64(100000)
	req := CreateOrderRequest{CustomerID: 5, FitterID: 7, SupplierID: 3, BasePrice: &price, Currency: "GBP"}

	mine, replayed, err := fx.svc.Create(as(admin), req, "shared-key")
	require.NoError(t, err)
	assert.False(t, replayed)

	theirs, replayed, err := fx.svc.Create(as(boss), req, "shared-key")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.NotEqual(t, mine.ID, theirs.ID)
	assert.Equal(t, boss.ID, theirs.CreatedBy)

	again, replayed, err := fx.svc.Create(as(boss), req, "shared-key")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, theirs.ID, again.ID)
	assert.Len(t, fx.repo.orders, 2)
}

func TestStatusLifecycle(t *testing.T) {
	fx := newFixture()
	price := int64(100000)
	order, _, err := fx.svc.Create(as(admin), CreateOrderRequest{CustomerID: 5, FitterID: 7, SupplierID: 3, BasePrice: &price, Currency: "EUR"}, "")
	require.NoError(t, err)

	_, err = fx.svc.Approve(as(admin), order.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)

	_, err = fx.svc.Submit(as(jane), order.ID)
	require.NoError(t, err)

	_, err = fx.svc.ChangeStatus(as(sup), order.ID, StatusRequest{Status: "APPROVED"})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	approved, err := fx.svc.Approve(as(boss), order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	_, err = fx.svc.Update(as(admin), order.ID, UpdateOrderRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)

	for _, next := range []string{"in_production", "SHIPPED", "DELIVERED"} {
		_, err = fx.svc.ChangeStatus(as(sup), order.ID, StatusRequest{Status: next})
		require.NoError(t, err, next)
	}
	_, err = fx.svc.ChangeStatus(as(sup), order.ID, StatusRequest{Status: "CANCELLED"})
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	assert.ErrorIs(t, fx.svc.Delete(as(admin), order.ID), shared.ErrInvalidTransition)

	_, err = fx.svc.ChangeStatus(as(sup), order.ID, StatusRequest{Status: "LOST"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	kinds := 0
	for _, e := range fx.notify.events {
		if e.Kind == EventStatusChanged {
			kinds++
		}
	}
	assert.Equal(t, 5, kinds)
}

func TestUpdateRecomputesTotal(t *testing.T) {
	fx := newFixture()
	price := int64(100000)
	order, _, err := fx.svc.Create(as(admin), CreateOrderRequest{CustomerID: 5, FitterID: 7, SupplierID: 3, BasePrice: &price, Currency: "EUR",
		Extras: []ExtraLine{{ExtraID: 11, Quantity: 1}}}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(102000), order.Total)

	newPrice := int64(120000)
	extras := []ExtraLine{{ExtraID: 10, Quantity: 2}}
	color := " black "
	updated, err := fx.svc.Update(as(admin), order.ID, UpdateOrderRequest{BasePrice: &newPrice, Extras: &extras, Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "black", updated.Color)
	assert.Equal(t, int64(120000+9000), updated.Total)
	require.Len(t, updated.Extras, 1)

	notes := "rider prefers wool flocking"
	updated, err = fx.svc.Update(as(admin), order.ID, UpdateOrderRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, int64(129000), updated.Total)
}

func TestTotals(t *testing.T) {
	extrasTotal, total := Totals(1000, []OrderExtra{{LineTotal: 250}, {LineTotal: 50}})
	assert.Equal(t, int64(300), extrasTotal)
	assert.Equal(t, int64(1300), total)

	extrasTotal, total = Totals(1000, nil)
	assert.Zero(t, extrasTotal)
	assert.Equal(t, int64(1000), total)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []Order{{
		OrderNumber: "SO-1", Status: StatusShipped, CustomerName: "Anna, Rider", FitterUsername: "jane.fitter",
		SupplierName: "Passier", Currency: "EUR", BasePrice: 250005, ExtrasTotal: 0, Total: 250005,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `SO-1,SHIPPED,"Anna, Rider",jane.fitter,Passier,,,EUR,2500.05,0.00,2500.05,2026-01-02T03:04:05Z`, lines[1])
	assert.Equal(t, "-1.50", formatMinor(-150))
}

func TestHandlerListAppliesScopeFromQuery(t *testing.T) {
	fx := newFixture()
	r := chi.NewRouter()
	r.Route("/orders", NewHandler(slog.Default(), fx.svc, rbac.Middleware{}).MountRoutes)

	get := func(u rbac.AuthenticatedUser, target string) int {
		req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(as(u))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusOK, get(jane, "/orders/?fitterUsername=Bob.Fitter"))
	assert.Equal(t, "bob.fitter", *fx.repo.lastFilter.FitterUsername)

	require.Equal(t, http.StatusOK, get(jane, "/orders/"))
	assert.Equal(t, "jane.fitter", *fx.repo.lastFilter.FitterUsername)

	assert.Equal(t, http.StatusBadRequest, get(admin, "/orders/?status=LOST"))
	assert.Equal(t, http.StatusForbidden, get(rbac.AuthenticatedUser{ID: 9, Username: "u", Role: rbac.RoleUser}, "/orders/"))
	assert.Equal(t, http.StatusForbidden, get(jane, "/orders/export"))
	assert.Equal(t, http.StatusOK, get(admin, "/orders/export"))
}

func TestHandlerCreateIdempotentReplay(t *testing.T) {
	fx := newFixture()
	r := chi.NewRouter()
	r.Route("/orders", NewHandler(slog.Default(), fx.svc, rbac.Middleware{}).MountRoutes)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders/",
			strings.NewReader(`{"customer_id":5,"fitter_id":7,"supplier_id":3,"base_price":90000,"currency":"EUR"}`)).WithContext(as(admin))
		req.Header.Set("Idempotency-Key", "abc")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}
	assert.Equal(t, http.StatusCreated, post().Code)
	second := post()
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
}
