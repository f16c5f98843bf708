package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

type settlementService struct {
	bookings     ports.BookingRepository
	transporters ports.TransporterRepository
	branches     ports.BranchRepository
	runner       ports.BatchRunner
	log          zerolog.Logger
}

// NewSettlementService returns a SettlementService implementation.
func NewSettlementService(
	bookings ports.BookingRepository,
	transporters ports.TransporterRepository,
	branches ports.BranchRepository,
	runner ports.BatchRunner,
	log zerolog.Logger,
) ports.SettlementService {
	return &settlementService{
		bookings:     bookings,
		transporters: transporters,
		branches:     branches,
		runner:       runner,
		log:          log,
	}
}

// AssignTransporter computes and writes commission and net payable for each
// booking in the batch. Each booking's derived fields go out in a single
// update; ordering between bookings is not significant and failures on one
// LR do not abort the rest.
func (s *settlementService) AssignTransporter(ctx context.Context, in ports.AssignInput) (*ports.AssignResult, error) {
	if in.Actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if in.Actor.Role != domain.RoleAdmin && in.Actor.Role != domain.RoleDeveloper {
		return nil, domain.ErrForbidden
	}

	tr, err := s.transporters.FindByID(ctx, in.TransporterID)
	if err != nil {
		return nil, err
	}
	if !tr.Active {
		return nil, domain.ErrTransporterInactive
	}

	result := &ports.AssignResult{
		TotalCommission: decimal.Zero,
		TotalNetPayable: decimal.Zero,
	}
	if len(in.LRNumbers) == 0 {
		return result, nil
	}

	assignedAt := time.Now().UTC()
	var mu sync.Mutex

	failures := s.runner.Run(ctx, in.LRNumbers, func(ctx context.Context, lr string) error {
		booking, err := s.bookings.FindByLR(ctx, lr)
		if err != nil {
			return err
		}

		amount, net := domain.SplitCommission(booking.Charge, tr.CommissionPercent)
		commission := domain.Commission{
			TransporterID:   tr.ID,
			TransporterName: tr.Name,
			Percent:         tr.CommissionPercent,
			Amount:          amount,
			NetPayable:      net,
			AssignedAt:      assignedAt,
		}
		if err := s.bookings.AssignTransporter(ctx, lr, commission); err != nil {
			return err
		}

		mu.Lock()
		result.Assigned++
		result.TotalCommission = result.TotalCommission.Add(amount)
		result.TotalNetPayable = result.TotalNetPayable.Add(net)
		mu.Unlock()
		return nil
	})

	for lr, ferr := range failures {
		s.log.Warn().Err(ferr).Str("lr_number", lr).Msg("assignment failed")
		result.Failed = append(result.Failed, lr)
	}
	sort.Strings(result.Failed)

	s.log.Info().
		Str("transporter", tr.ID).
		Int("assigned", result.Assigned).
		Int("failed", len(result.Failed)).
		Msg("transporter assigned to batch")

	return result, nil
}

// Report lists the bookings in the date range that the requested branch is
// financially responsible for, with settlement totals. Prepaid bookings
// belong to their origin branch; to-pay bookings belong to the branch whose
// display name matches the destination. No scope means the global view.
func (s *settlementService) Report(ctx context.Context, in ports.ReportInput) (*ports.SettlementReport, error) {
	if in.Actor == nil {
		return nil, domain.ErrNotAuthenticated
	}

	scope := in.BranchCode
	// Staff assigned to a specific branch only ever see that branch.
	if in.Actor.Role == domain.RoleStaff && in.Actor.Branch != domain.BranchAll {
		scope = in.Actor.Branch
	}

	var branch *domain.Branch
	if scope != "" && scope != domain.BranchAll {
		b, err := s.branches.FindByCode(ctx, scope)
		if err != nil {
			return nil, err
		}
		branch = b
	}

	bookings, _, err := s.bookings.ListRange(ctx, in.From, in.To, ports.Page{})
	if err != nil {
		return nil, err
	}

	report := &ports.SettlementReport{
		Rows:            []ports.ReportRow{},
		TotalCharge:     decimal.Zero,
		TotalCommission: decimal.Zero,
		TotalNetPayable: decimal.Zero,
	}
	for i := range bookings {
		b := &bookings[i]
		if branch != nil && !b.OwnedBy(*branch) {
			continue
		}
		report.Rows = append(report.Rows, ports.ReportRow{
			LRNumber:         b.LRNumber,
			BookedAt:         b.BookedAt,
			Charge:           b.Charge,
			PaymentDirection: b.PaymentDirection,
			OriginBranch:     b.OriginBranch,
			DestinationName:  b.DestinationName,
			Commission:       b.Commission,
		})
		report.TotalCharge = report.TotalCharge.Add(b.Charge)
		if b.Commission != nil {
			report.TotalCommission = report.TotalCommission.Add(b.Commission.Amount)
			report.TotalNetPayable = report.TotalNetPayable.Add(b.Commission.NetPayable)
		}
	}

	return report, nil
}
