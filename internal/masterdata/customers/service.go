package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/saddlefit/oms/internal/masterdata/shared"
	root "github.com/saddlefit/oms/internal/shared"
)

const entity = "customer"

type Service struct {
	repo  Repository
	audit shared.Recorder
}

func NewService(repo Repository, audit shared.Recorder) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Customer, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Customer, error) {
	c, err := fromInput(in)
	if err != nil {
		return Customer{}, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	s.audit.Record(ctx, root.AuditCreate, entity, created.ID, map[string]any{"name": created.Name})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Customer, error) {
	if id <= 0 {
		return Customer{}, shared.ErrInvalidID
	}
	c, err := fromInput(in)
	if err != nil {
		return Customer{}, err
	}
	updated, err := s.repo.Update(ctx, id, c)
	if err != nil {
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}
	s.audit.Record(ctx, root.AuditUpdate, entity, id, nil)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.audit.Record(ctx, root.AuditDelete, entity, id, nil)
	return nil
}

func fromInput(in Input) (Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.CountryCode = strings.ToUpper(strings.TrimSpace(in.CountryCode))
	in.HorseName = strings.TrimSpace(in.HorseName)
	if err := root.Validate(in); err != nil {
		return Customer{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Customer{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		CountryCode: in.CountryCode,
		HorseName:   in.HorseName,
		FitterID:    in.FitterID,
		IsActive:    active,
	}, nil
}
