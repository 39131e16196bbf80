package stock

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/saddlefit/oms/internal/platform/cache"
	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

// availablePage is the cached shape of one page of the available listing.
type availablePage struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

type Service struct {
	repo   Repository
	cache  *cache.JSONCache
	audit  shared.AuditRecorder
	logger *slog.Logger
}

func NewService(repo Repository, available *cache.JSONCache, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: available, audit: audit, logger: logger}
}

// List returns every stock item matching f.
func (s *Service) List(ctx context.Context, f Filters) ([]Item, int, error) {
	return s.repo.List(ctx, f)
}

// Mine returns the items assigned to the calling fitter.
func (s *Service) Mine(ctx context.Context, f Filters) ([]Item, int, error) {
	user, err := rbac.CurrentUser(ctx)
	if err != nil || strings.TrimSpace(user.Username) == "" {
		return nil, 0, shared.ErrUnauthorized
	}
	username := user.Username
	f.AssignedTo = &username
	f.Status = nil
	return s.repo.List(ctx, f)
}

// Available returns unassigned items. Results are cached until the next
// stock mutation.
func (s *Service) Available(ctx context.Context, f Filters) ([]Item, int, error) {
	status := StatusAvailable
	f.Status = &status
	f.AssignedTo = nil
	key := availableKey(f)
	page, err := cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (availablePage, error) {
		items, total, err := s.repo.List(ctx, f)
		return availablePage{Items: items, Total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Item, error) {
	it, err := fromInput(in)
	if err != nil {
		return Item{}, err
	}
	created, err := s.repo.Create(ctx, it)
	if err != nil {
		return Item{}, fmt.Errorf("create stock item: %w", err)
	}
	s.changed(ctx, shared.AuditCreate, created.ID, map[string]any{"serial_number": created.SerialNumber})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Item, error) {
	it, err := fromInput(in)
	if err != nil {
		return Item{}, err
	}
	updated, err := s.repo.Update(ctx, id, it)
	if err != nil {
		return Item{}, fmt.Errorf("update stock item: %w", err)
	}
	s.changed(ctx, shared.AuditUpdate, id, nil)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	s.changed(ctx, shared.AuditDelete, id, nil)
	return nil
}

// Claim assigns an available item to the calling fitter.
func (s *Service) Claim(ctx context.Context, id int64) (Item, error) {
	user, err := rbac.CurrentUser(ctx)
	if err != nil || strings.TrimSpace(user.Username) == "" {
		return Item{}, shared.ErrUnauthorized
	}
	username := user.Username
	it, err := s.repo.Assign(ctx, id, StatusAvailable, StatusAssigned, nil, &username)
	if err != nil {
		return Item{}, fmt.Errorf("claim stock item: %w", err)
	}
	s.changed(ctx, shared.AuditUpdate, id, map[string]any{"claimed_by": username})
	return it, nil
}

// Release hands an item assigned to the caller back to the pool.
func (s *Service) Release(ctx context.Context, id int64) (Item, error) {
	user, err := rbac.CurrentUser(ctx)
	if err != nil || strings.TrimSpace(user.Username) == "" {
		return Item{}, shared.ErrUnauthorized
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if current.AssignedTo == nil || *current.AssignedTo != user.Username {
		return Item{}, fmt.Errorf("%w: item is not assigned to you", shared.ErrForbidden)
	}
	holder := user.Username
	it, err := s.repo.Assign(ctx, id, StatusAssigned, StatusAvailable, &holder, nil)
	if err != nil {
		return Item{}, fmt.Errorf("release stock item: %w", err)
	}
	s.changed(ctx, shared.AuditUpdate, id, map[string]any{"released_by": user.Username})
	return it, nil
}

func (s *Service) changed(ctx context.Context, action string, id int64, meta map[string]any) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidate stock cache", slog.Any("error", err))
	}
	if s.audit == nil {
		return
	}
	entry := shared.AuditLog{Action: action, Entity: "stock_item", EntityID: shared.EntityID(id), Meta: meta}
	if user := rbac.UserFromContext(ctx); user != nil {
		entry.ActorID, entry.Actor = user.ID, user.Username
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit stock change", slog.Any("error", err))
	}
}

func fromInput(in Input) (Item, error) {
	in.SerialNumber = strings.ToUpper(strings.TrimSpace(in.SerialNumber))
	in.Brand = strings.TrimSpace(in.Brand)
	in.Condition = strings.ToUpper(strings.TrimSpace(in.Condition))
	in.Status = strings.ToUpper(strings.TrimSpace(in.Status))
	if in.AssignedTo != nil {
		normalized := shared.NormalizeUsername(*in.AssignedTo)
		in.AssignedTo = &normalized
		if normalized == "" {
			in.AssignedTo = nil
		}
	}
	if err := shared.Validate(in); err != nil {
		return Item{}, err
	}
	status := Status(in.Status)
	switch {
	case status == "" && in.AssignedTo != nil:
		status = StatusAssigned
	case status == "":
		status = StatusAvailable
	}
	if status == StatusAssigned && in.AssignedTo == nil {
		return Item{}, shared.NewValidationError("assigned_to", "is required for ASSIGNED items")
	}
	if status == StatusAvailable && in.AssignedTo != nil {
		return Item{}, shared.NewValidationError("assigned_to", "must be empty for AVAILABLE items")
	}
	return Item{
		SerialNumber: in.SerialNumber,
		SupplierID:   in.SupplierID,
		PresetID:     in.PresetID,
		WarehouseID:  in.WarehouseID,
		Brand:        in.Brand,
		Model:        strings.TrimSpace(in.Model),
		SeatSize:     strings.TrimSpace(in.SeatSize),
		Color:        strings.TrimSpace(in.Color),
		Condition:    in.Condition,
		Price:        in.Price,
		Status:       status,
		AssignedTo:   in.AssignedTo,
		Notes:        strings.TrimSpace(in.Notes),
	}, nil
}

func availableKey(f Filters) string {
	var b strings.Builder
	b.WriteString("available:p=")
	b.WriteString(strconv.Itoa(f.Page))
	b.WriteString(":l=")
	b.WriteString(strconv.Itoa(f.Limit))
	b.WriteString(":s=")
	b.WriteString(strings.ToLower(f.Search))
	b.WriteString(":seat=")
	b.WriteString(f.SeatSize)
	if f.WarehouseID != nil {
		b.WriteString(":wh=")
		b.WriteString(strconv.FormatInt(*f.WarehouseID, 10))
	}
	return b.String()
}
