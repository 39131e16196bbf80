package extras

import (
	"context"
	"fmt"
	"strings"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	root "github.com/saddlefit/oms/internal/shared"
)

const entity = "extra"

type Service struct {
	repo  Repository
	audit shared.Recorder
}

func NewService(repo Repository, audit shared.Recorder) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Extra, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Extra, error) {
	if id <= 0 {
		return Extra{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Extra, error) {
	e, err := fromInput(in)
	if err != nil {
		return Extra{}, err
	}
	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return Extra{}, fmt.Errorf("create extra: %w", err)
	}
	s.audit.Record(ctx, root.AuditCreate, entity, created.ID, map[string]any{"name": created.Name})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Extra, error) {
	if id <= 0 {
		return Extra{}, shared.ErrInvalidID
	}
	e, err := fromInput(in)
	if err != nil {
		return Extra{}, err
	}
	updated, err := s.repo.Update(ctx, id, e)
	if err != nil {
		return Extra{}, fmt.Errorf("update extra: %w", err)
	}
	s.audit.Record(ctx, root.AuditUpdate, entity, id, nil)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete extra: %w", err)
	}
	s.audit.Record(ctx, root.AuditDelete, entity, id, nil)
	return nil
}

func fromInput(in Input) (Extra, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := root.Validate(in); err != nil {
		return Extra{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Extra{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		IsActive:    active,
	}, nil
}
