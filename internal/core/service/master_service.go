package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

type masterDataService struct {
	transporters ports.TransporterRepository
	branches     ports.BranchRepository
	log          zerolog.Logger
}

// NewMasterDataService returns a MasterDataService implementation.
func NewMasterDataService(transporters ports.TransporterRepository, branches ports.BranchRepository, log zerolog.Logger) ports.MasterDataService {
	return &masterDataService{transporters: transporters, branches: branches, log: log}
}

func (s *masterDataService) CreateTransporter(ctx context.Context, t domain.Transporter) (*domain.Transporter, error) {
	if !domain.ValidCommissionPercent(t.CommissionPercent) {
		return nil, domain.ErrInvalidCommission
	}
	t.Active = true
	created, err := s.transporters.Create(ctx, &t)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("transporter", created.ID).Str("name", created.Name).Msg("transporter created")
	return created, nil
}

func (s *masterDataService) ListTransporters(ctx context.Context, activeOnly bool) ([]domain.Transporter, error) {
	return s.transporters.List(ctx, activeOnly)
}

func (s *masterDataService) UpdateTransporter(ctx context.Context, t domain.Transporter) (*domain.Transporter, error) {
	if !domain.ValidCommissionPercent(t.CommissionPercent) {
		return nil, domain.ErrInvalidCommission
	}
	if _, err := s.transporters.FindByID(ctx, t.ID); err != nil {
		return nil, err
	}
	if err := s.transporters.Update(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *masterDataService) CreateBranch(ctx context.Context, b domain.Branch) (*domain.Branch, error) {
	if b.Code == "" || b.DisplayName == "" {
		return nil, domain.ErrInvalidBranch
	}
	b.Active = true
	created, err := s.branches.Create(ctx, &b)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("branch", created.Code).Msg("branch created")
	return created, nil
}

func (s *masterDataService) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return s.branches.List(ctx)
}
