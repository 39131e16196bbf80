package fitters

import (
	"context"
	"fmt"
	"strings"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	root "github.com/saddlefit/oms/internal/shared"
)

const entity = "fitter"

type Service struct {
	repo  Repository
	audit shared.Recorder
}

func NewService(repo Repository, audit shared.Recorder) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Fitter, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Fitter, error) {
	if id <= 0 {
		return Fitter{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Fitter, error) {
	f, err := fromInput(in)
	if err != nil {
		return Fitter{}, err
	}
	created, err := s.repo.Create(ctx, f)
	if err != nil {
		return Fitter{}, fmt.Errorf("create fitter: %w", err)
	}
	s.audit.Record(ctx, root.AuditCreate, entity, created.ID, map[string]any{"username": created.Username})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Fitter, error) {
	if id <= 0 {
		return Fitter{}, shared.ErrInvalidID
	}
	f, err := fromInput(in)
	if err != nil {
		return Fitter{}, err
	}
	updated, err := s.repo.Update(ctx, id, f)
	if err != nil {
		return Fitter{}, fmt.Errorf("update fitter: %w", err)
	}
	s.audit.Record(ctx, root.AuditUpdate, entity, id, nil)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete fitter: %w", err)
	}
	s.audit.Record(ctx, root.AuditDelete, entity, id, nil)
	return nil
}

func fromInput(in Input) (Fitter, error) {
	in.Username = root.NormalizeUsername(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.CountryCode = strings.ToUpper(strings.TrimSpace(in.CountryCode))
	if err := root.Validate(in); err != nil {
		return Fitter{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Fitter{
		Username:         in.Username,
		Name:             in.Name,
		Email:            in.Email,
		Phone:            in.Phone,
		CountryCode:      in.CountryCode,
		CountryManagerID: in.CountryManagerID,
		IsActive:         active,
	}, nil
}
