package presets

import (
	"context"
	"fmt"
	"strings"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	root "github.com/saddlefit/oms/internal/shared"
)

const entity = "preset"

type Service struct {
	repo  Repository
	audit shared.Recorder
}

func NewService(repo Repository, audit shared.Recorder) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Preset, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Preset, error) {
	if id <= 0 {
		return Preset{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Preset, error) {
	p, err := fromInput(in)
	if err != nil {
		return Preset{}, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Preset{}, fmt.Errorf("create preset: %w", err)
	}
	s.audit.Record(ctx, root.AuditCreate, entity, created.ID, map[string]any{"name": created.Name})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Preset, error) {
	if id <= 0 {
		return Preset{}, shared.ErrInvalidID
	}
	p, err := fromInput(in)
	if err != nil {
		return Preset{}, err
	}
	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return Preset{}, fmt.Errorf("update preset: %w", err)
	}
	s.audit.Record(ctx, root.AuditUpdate, entity, id, nil)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	s.audit.Record(ctx, root.AuditDelete, entity, id, nil)
	return nil
}

func fromInput(in Input) (Preset, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	in.SeatSize = strings.TrimSpace(in.SeatSize)
	in.Color = strings.TrimSpace(in.Color)
	if err := root.Validate(in); err != nil {
		return Preset{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Preset{
		SupplierID: in.SupplierID,
		Name:       in.Name,
		Brand:      in.Brand,
		Model:      in.Model,
		SeatSize:   in.SeatSize,
		Color:      in.Color,
		BasePrice:  in.BasePrice,
		IsActive:   active,
	}, nil
}
