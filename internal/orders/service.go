package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

const idempotencyModule = "orders"

// idempotencyScope keys a client retry token to the caller so two users
// picking the same token never see each other's orders.
func idempotencyScope(actorID int64) string {
	return idempotencyModule + ":" + strconv.FormatInt(actorID, 10)
}

// CurrentUserFunc resolves the caller of a request.
type CurrentUserFunc func(ctx context.Context) (rbac.AuthenticatedUser, error)

// IdempotencyStore guards order creation against client retries.
type IdempotencyStore interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// Event describes an order change worth telling people about.
type Event struct {
	Kind           string `json:"kind"`
	OrderID        int64  `json:"order_id"`
	OrderNumber    string `json:"order_number"`
	Status         Status `json:"status"`
	FitterUsername string `json:"fitter_username"`
	ActorID        int64  `json:"actor_id"`
}

// Event kinds.
const (
	EventCreated       = "created"
	EventStatusChanged = "status_changed"
)

// Notifier hands events to the background pipeline.
type Notifier interface {
	NotifyOrder(ctx context.Context, event Event) error
}

type Service struct {
	repo        Repository
	idem        IdempotencyStore
	audit       shared.AuditRecorder
	notifier    Notifier
	logger      *slog.Logger
	currentUser CurrentUserFunc
	now         func() time.Time
}

func NewService(repo Repository, idem IdempotencyStore, audit shared.AuditRecorder, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		idem:        idem,
		audit:       audit,
		notifier:    notifier,
		logger:      logger,
		currentUser: rbac.CurrentUser,
		now:         time.Now,
	}
}

// SetCurrentUserFunc replaces the caller lookup.
func (s *Service) SetCurrentUserFunc(fn CurrentUserFunc) {
	if fn != nil {
		s.currentUser = fn
	}
}

// List returns orders matching f. FITTER callers are scoped to their own
// orders unless they name a fitter themselves; if the caller cannot be
// resolved the filters are used unchanged.
func (s *Service) List(ctx context.Context, f ListFilters) ([]Order, int, error) {
	return s.repo.List(ctx, s.scope(ctx, f))
}

func (s *Service) scope(ctx context.Context, f ListFilters) ListFilters {
	user, err := s.currentUser(ctx)
	if err != nil {
		s.logger.Debug("order list without caller", slog.Any("error", err))
		return f
	}
	return ApplyFitterScope(&user, f)
}

// Get loads an order with its extras.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	var (
		order  *Order
		extras []OrderExtra
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := s.repo.Get(gctx, id)
		order = o
		return err
	})
	g.Go(func() error {
		e, err := s.repo.Extras(gctx, id)
		extras = e
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	order.Extras = extras
	return order, nil
}

// Create stores a new order. A repeated idempotency key returns the order
// created by the first request and replayed=true.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, idempotencyKey string) (order *Order, replayed bool, err error) {
	actor, err := s.currentUser(ctx)
	if err != nil {
		return nil, false, shared.ErrUnauthorized
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := shared.Validate(req); err != nil {
		return nil, false, err
	}

	if idempotencyKey != "" && s.idem != nil {
		scope := idempotencyScope(actor.ID)
		if err := s.idem.CheckAndInsert(ctx, idempotencyKey, scope); err != nil {
			if !errors.Is(err, shared.ErrIdempotencyConflict) {
				return nil, false, fmt.Errorf("idempotency: %w", err)
			}
			existing, err := s.repo.FindByIdempotencyKey(ctx, actor.ID, idempotencyKey)
			if errors.Is(err, shared.ErrNotFound) {
				return nil, false, fmt.Errorf("%w: request with this idempotency key is still in progress", shared.ErrConflict)
			}
			if err != nil {
				return nil, false, err
			}
			existing, err = s.Get(ctx, existing.ID)
			return existing, true, err
		}
		defer func() {
			if err != nil {
				if derr := s.idem.Delete(context.WithoutCancel(ctx), idempotencyKey, scope); derr != nil {
					s.logger.Warn("release idempotency key", slog.Any("error", derr))
				}
			}
		}()
	}

	fitterID, err := s.resolveFitter(ctx, actor, req.FitterID)
	if err != nil {
		return nil, false, err
	}

	o := Order{
		OrderNumber: s.newOrderNumber(),
		CustomerID:  req.CustomerID,
		FitterID:    fitterID,
		SupplierID:  req.SupplierID,
		PresetID:    req.PresetID,
		SeatSize:    strings.TrimSpace(req.SeatSize),
		Color:       strings.TrimSpace(req.Color),
		Status:      StatusDraft,
		Currency:    req.Currency,
		Notes:       strings.TrimSpace(req.Notes),
		CreatedBy:   actor.ID,
	}
	if req.Submit {
		o.Status = StatusOrdered
	}
	if err := s.applyPreset(ctx, &o, req.PresetID, req.BasePrice); err != nil {
		return nil, false, err
	}
	if o.SupplierID <= 0 {
		return nil, false, shared.NewValidationError("supplier_id", "is required when no preset is given")
	}
	extras, err := priceExtras(ctx, s.repo, req.Extras)
	if err != nil {
		return nil, false, err
	}
	o.ExtrasTotal, o.Total = Totals(o.BasePrice, extras)

	var id int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		newID, err := repo.Create(ctx, o, idempotencyKey)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		id = newID
		return repo.ReplaceExtras(ctx, id, extras)
	})
	if err != nil {
		return nil, false, err
	}

	s.record(ctx, actor, shared.AuditCreate, id, map[string]any{"order_number": o.OrderNumber, "total": o.Total})
	created, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	s.notify(ctx, EventCreated, created, actor)
	return created, false, nil
}

// Update edits an order that has not been approved yet.
func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*Order, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.Editable() {
		return nil, fmt.Errorf("%w: %s orders cannot be edited", shared.ErrInvalidTransition, existing.Status)
	}

	o := *existing
	if req.PresetID != nil || req.BasePrice != nil {
		presetID := req.PresetID
		if presetID == nil {
			presetID = o.PresetID
		}
		if err := s.applyPreset(ctx, &o, presetID, req.BasePrice); err != nil {
			return nil, err
		}
	}
	if req.SeatSize != nil {
		o.SeatSize = strings.TrimSpace(*req.SeatSize)
	}
	if req.Color != nil {
		o.Color = strings.TrimSpace(*req.Color)
	}
	if req.Notes != nil {
		o.Notes = strings.TrimSpace(*req.Notes)
	}
	extras := existing.Extras
	if req.Extras != nil {
		extras, err = priceExtras(ctx, s.repo, *req.Extras)
		if err != nil {
			return nil, err
		}
	}
	o.ExtrasTotal, o.Total = Totals(o.BasePrice, extras)

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, id, o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if req.Extras != nil {
			return repo.ReplaceExtras(ctx, id, extras)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	actor, _ := s.currentUser(ctx)
	s.record(ctx, actor, shared.AuditUpdate, id, map[string]any{"total": o.Total})
	return s.Get(ctx, id)
}

// Delete removes an order that never reached production.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !existing.Status.Editable() && existing.Status != StatusCancelled {
		return fmt.Errorf("%w: %s orders cannot be deleted", shared.ErrInvalidTransition, existing.Status)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	actor, _ := s.currentUser(ctx)
	s.record(ctx, actor, shared.AuditDelete, id, map[string]any{"order_number": existing.OrderNumber})
	return nil
}

// Submit moves a draft to ORDERED.
func (s *Service) Submit(ctx context.Context, id int64) (*Order, error) {
	return s.ChangeStatus(ctx, id, StatusRequest{Status: string(StatusOrdered)})
}

// Approve moves an ORDERED order to APPROVED.
func (s *Service) Approve(ctx context.Context, id int64) (*Order, error) {
	return s.ChangeStatus(ctx, id, StatusRequest{Status: string(StatusApproved)})
}

// ChangeStatus applies one lifecycle transition.
func (s *Service) ChangeStatus(ctx context.Context, id int64, req StatusRequest) (*Order, error) {
	if err := shared.Validate(req); err != nil {
		return nil, err
	}
	to, ok := ParseStatus(req.Status)
	if !ok {
		return nil, shared.NewValidationError("status", "unknown status")
	}
	actor, err := s.currentUser(ctx)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if to == StatusApproved && !rbac.HasPermission(actor.Role, rbac.PermOrderApprove) {
		return nil, fmt.Errorf("%w: approving requires %s", shared.ErrForbidden, rbac.PermOrderApprove)
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(existing.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", shared.ErrInvalidTransition, existing.Status, to)
	}

	change := StatusChange{OrderID: id, From: existing.Status, To: to, ChangedBy: actor.ID, Note: strings.TrimSpace(req.Note)}
	if err := s.repo.UpdateStatus(ctx, change); err != nil {
		return nil, fmt.Errorf("change status: %w", err)
	}

	s.record(ctx, actor, shared.AuditStatusChange, id, map[string]any{"from": string(change.From), "to": string(to)})
	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, EventStatusChanged, updated, actor)
	return updated, nil
}

func (s *Service) resolveFitter(ctx context.Context, actor rbac.AuthenticatedUser, requested int64) (int64, error) {
	if actor.Role != rbac.RoleFitter {
		if requested <= 0 {
			return 0, shared.NewValidationError("fitter_id", "is required")
		}
		return requested, nil
	}
	own, err := s.repo.FitterIDByUsername(ctx, actor.Username)
	if errors.Is(err, shared.ErrNotFound) {
		return 0, fmt.Errorf("%w: no active fitter profile for %s", shared.ErrForbidden, actor.Username)
	}
	if err != nil {
		return 0, err
	}
	if requested > 0 && requested != own {
		return 0, fmt.Errorf("%w: fitters can only order for themselves", shared.ErrForbidden)
	}
	return own, nil
}

func (s *Service) applyPreset(ctx context.Context, o *Order, presetID *int64, basePrice *int64) error {
	if presetID == nil {
		if basePrice == nil {
			return shared.NewValidationError("base_price", "is required when no preset is given")
		}
		o.PresetID = nil
		o.BasePrice = *basePrice
		return nil
	}
	preset, err := s.repo.Preset(ctx, *presetID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("preset_id", "does not exist or is inactive")
	}
	if err != nil {
		return fmt.Errorf("load preset: %w", err)
	}
	o.PresetID = presetID
	o.SupplierID = preset.SupplierID
	o.BasePrice = preset.BasePrice
	if basePrice != nil {
		o.BasePrice = *basePrice
	}
	if o.SeatSize == "" {
		o.SeatSize = preset.SeatSize
	}
	if o.Color == "" {
		o.Color = preset.Color
	}
	return nil
}

func (s *Service) newOrderNumber() string {
	return "SO-" + s.now().UTC().Format("20060102") + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *Service) record(ctx context.Context, actor rbac.AuthenticatedUser, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Actor:    actor.Username,
		Action:   action,
		Entity:   "order",
		EntityID: shared.EntityID(id),
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("audit order", slog.Int64("order_id", id), slog.Any("error", err))
	}
}

func (s *Service) notify(ctx context.Context, kind string, o *Order, actor rbac.AuthenticatedUser) {
	if s.notifier == nil {
		return
	}
	event := Event{
		Kind:           kind,
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status,
		FitterUsername: o.FitterUsername,
		ActorID:        actor.ID,
	}
	if err := s.notifier.NotifyOrder(ctx, event); err != nil {
		s.logger.Warn("enqueue order notification", slog.Int64("order_id", o.ID), slog.Any("error", err))
	}
}
