package countrymanagers

import (
	"context"
	"fmt"
	"strings"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	root "github.com/saddlefit/oms/internal/shared"
)

const entity = "country_manager"

type Service struct {
	repo  Repository
	audit shared.Recorder
}

func NewService(repo Repository, audit shared.Recorder) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]CountryManager, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (CountryManager, error) {
	if id <= 0 {
		return CountryManager{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (CountryManager, error) {
	cm, err := fromInput(in)
	if err != nil {
		return CountryManager{}, err
	}
	created, err := s.repo.Create(ctx, cm)
	if err != nil {
		return CountryManager{}, fmt.Errorf("create country manager: %w", err)
	}
	s.audit.Record(ctx, root.AuditCreate, entity, created.ID, map[string]any{"email": created.Email})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (CountryManager, error) {
	if id <= 0 {
		return CountryManager{}, shared.ErrInvalidID
	}
	cm, err := fromInput(in)
	if err != nil {
		return CountryManager{}, err
	}
	updated, err := s.repo.Update(ctx, id, cm)
	if err != nil {
		return CountryManager{}, fmt.Errorf("update country manager: %w", err)
	}
	s.audit.Record(ctx, root.AuditUpdate, entity, id, nil)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete country manager: %w", err)
	}
	s.audit.Record(ctx, root.AuditDelete, entity, id, nil)
	return nil
}

func fromInput(in Input) (CountryManager, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.CountryCode = strings.ToUpper(strings.TrimSpace(in.CountryCode))
	in.Region = strings.TrimSpace(in.Region)
	if err := root.Validate(in); err != nil {
		return CountryManager{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return CountryManager{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		CountryCode: in.CountryCode,
		Region:      in.Region,
		IsActive:    active,
	}, nil
}
