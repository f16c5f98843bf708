package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

type bookingService struct {
	bookings ports.BookingRepository
	branches ports.BranchRepository
	log      zerolog.Logger
}

// NewBookingService returns a BookingService implementation.
func NewBookingService(bookings ports.BookingRepository, branches ports.BranchRepository, log zerolog.Logger) ports.BookingService {
	return &bookingService{bookings: bookings, branches: branches, log: log}
}

func (s *bookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	if in.Actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !in.PaymentDirection.Valid() {
		return nil, domain.ErrInvalidPaymentDirection
	}
	if in.Charge.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidCharge
	}
	if !in.Actor.CanAccessBranch(in.OriginBranch) {
		return nil, domain.ErrForbidden
	}
	if _, err := s.branches.FindByCode(ctx, in.OriginBranch); err != nil {
		return nil, err
	}

	bookedAt := in.BookedAt
	if bookedAt.IsZero() {
		bookedAt = time.Now().UTC()
	}

	booking := &domain.Booking{
		LRNumber:         in.LRNumber,
		BookedAt:         bookedAt,
		Charge:           in.Charge,
		PaymentDirection: in.PaymentDirection,
		OriginBranch:     in.OriginBranch,
		DestinationName:  in.DestinationName,
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("lr_number", created.LRNumber).
		Str("origin_branch", created.OriginBranch).
		Str("direction", string(created.PaymentDirection)).
		Msg("booking recorded")

	return created, nil
}

func (s *bookingService) ListRange(ctx context.Context, from, to time.Time, page ports.Page) ([]domain.Booking, int64, error) {
	return s.bookings.ListRange(ctx, from, to, page)
}
