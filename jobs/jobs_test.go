package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saddlefit/oms/internal/orders"
	"github.com/saddlefit/oms/internal/platform/mail"
	"github.com/saddlefit/oms/internal/rbac"
)

type lookupStub struct {
	ctx OrderContext
	err error
}

func (l lookupStub) OrderContext(context.Context, int64) (OrderContext, error) {
	return l.ctx, l.err
}

type mailSpy struct {
	sent []mail.Message
	fail map[string]bool
}

func (m *mailSpy) Send(_ context.Context, msg mail.Message) (int, error) {
	if m.fail[msg.ToEmail] {
		return 0, errors.New("smtp down")
	}
	m.sent = append(m.sent, msg)
	return 202, nil
}

type purgerStub struct {
	got time.Duration
}

func (p *purgerStub) Cleanup(_ context.Context, olderThan time.Duration) (int64, error) {
	p.got = olderThan
	return 3, nil
}

func notifyTask(t *testing.T, kind string) *asynq.Task {
	t.Helper()
	task, err := NewOrderNotifyTask(OrderNotifyPayload{Kind: kind, OrderID: 7, OrderNumber: "SO-20260101-0000ABCD", Status: "APPROVED"})
	require.NoError(t, err)
	return task
}

func TestOrderNotifyMailsEveryRecipient(t *testing.T) {
	spy := &mailSpy{}
	job := NewOrderNotifyJob(lookupStub{ctx: OrderContext{
		Customer: "Mia", Total: 125050, Currency: "EUR",
		Recipients: []Recipient{{Name: "Jane", Email: "jane@example.com"}, {Name: "Passier", Email: "orders@passier.example"}},
	}}, spy, nil, nil)

	require.NoError(t, job.Handle(context.Background(), notifyTask(t, orders.EventStatusChanged)))
	require.Len(t, spy.sent, 2)
	assert.Equal(t, mail.OrderStatusChangedTemplate, spy.sent[0].Template)
	data := spy.sent[0].Data.(map[string]any)
	assert.Equal(t, "1250.50 EUR", data["Total"])
	assert.Equal(t, "Jane", data["Name"])

	spy.sent = nil
	require.NoError(t, job.Handle(context.Background(), notifyTask(t, orders.EventCreated)))
	assert.Equal(t, mail.OrderCreatedTemplate, spy.sent[0].Template)
}

func TestOrderNotifyPartialFailureIsNotRetried(t *testing.T) {
	spy := &mailSpy{fail: map[string]bool{"jane@example.com": true}}
	job := NewOrderNotifyJob(lookupStub{ctx: OrderContext{Recipients: []Recipient{{Email: "jane@example.com"}, {Email: "s@example.com"}}}}, spy, nil, nil)
	assert.NoError(t, job.Handle(context.Background(), notifyTask(t, orders.EventCreated)))

	spy.fail["s@example.com"] = true
	assert.Error(t, job.Handle(context.Background(), notifyTask(t, orders.EventCreated)))
}

func TestOrderNotifySkipsBadInput(t *testing.T) {
	job := NewOrderNotifyJob(lookupStub{err: pgx.ErrNoRows}, &mailSpy{}, nil, nil)
	assert.NoError(t, job.Handle(context.Background(), notifyTask(t, orders.EventCreated)))

	err := job.Handle(context.Background(), notifyTask(t, "mystery"))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = job.Handle(context.Background(), asynq.NewTask(TaskOrderNotify, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestIdempotencyCleanupRetention(t *testing.T) {
	store := &purgerStub{}
	job := NewIdempotencyCleanupJob(store, 0, nil, nil)
	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(TaskIdempotencyCleanup, nil)))
	assert.Equal(t, DefaultIdempotencyRetention, store.got)

	task, err := NewIdempotencyCleanupTask(time.Hour)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, time.Hour, store.got)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0.05", formatMoney(5, ""))
	assert.Equal(t, "-12.30 GBP", formatMoney(-1230, "GBP"))
}

func TestHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(nil, nil, rbac.Middleware{}).MountRoutes)
	req := httptest.NewRequest(http.MethodGet, "/jobs/health", nil)
	req = req.WithContext(rbac.WithUser(req.Context(), rbac.AuthenticatedUser{ID: 1, Username: "admin", Role: rbac.RoleAdmin}))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var body []queueHealth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, QueueDefault, body[0].Queue)
}

func TestNewWorkerRequiresHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"}})
	assert.Error(t, err)
}

func TestHealthRequiresAdmin(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(nil, nil, rbac.Middleware{}).MountRoutes)

	do := func(user *rbac.AuthenticatedUser) int {
		req := httptest.NewRequest(http.MethodGet, "/jobs/health", nil)
		if user != nil {
			req = req.WithContext(rbac.WithUser(req.Context(), *user))
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(nil))
	for _, role := range []rbac.Role{rbac.RoleUser, rbac.RoleFitter, rbac.RoleSupplier} {
		assert.Equal(t, http.StatusForbidden, do(&rbac.AuthenticatedUser{ID: 5, Username: "x", Role: role}), role)
	}
	assert.Equal(t, http.StatusOK, do(&rbac.AuthenticatedUser{ID: 4, Username: "boss", Role: rbac.RoleSupervisor}))
}
