package warehouses

import (
	"context"
	"fmt"
	"strings"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	root "github.com/saddlefit/oms/internal/shared"
)

const entity = "warehouse"

type Service struct {
	repo  Repository
	audit shared.Recorder
}

func NewService(repo Repository, audit shared.Recorder) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Warehouse, error) {
	wh, err := fromInput(in)
	if err != nil {
		return Warehouse{}, err
	}
	created, err := s.repo.Create(ctx, wh)
	if err != nil {
		return Warehouse{}, fmt.Errorf("create warehouse: %w", err)
	}
	s.audit.Record(ctx, root.AuditCreate, entity, created.ID, map[string]any{"code": created.Code})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, shared.ErrInvalidID
	}
	wh, err := fromInput(in)
	if err != nil {
		return Warehouse{}, err
	}
	updated, err := s.repo.Update(ctx, id, wh)
	if err != nil {
		return Warehouse{}, fmt.Errorf("update warehouse: %w", err)
	}
	s.audit.Record(ctx, root.AuditUpdate, entity, id, nil)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}
	s.audit.Record(ctx, root.AuditDelete, entity, id, nil)
	return nil
}

func fromInput(in Input) (Warehouse, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.CountryCode = strings.ToUpper(strings.TrimSpace(in.CountryCode))
	if err := root.Validate(in); err != nil {
		return Warehouse{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Warehouse{
		Code:             in.Code,
		Name:             in.Name,
		Address:          in.Address,
		CountryCode:      in.CountryCode,
		CountryManagerID: in.CountryManagerID,
		IsActive:         active,
	}, nil
}
