package ports

import (
	"context"
	"time"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
)

// IdentityRepository loads operator profiles.
type IdentityRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	FindByHandle(ctx context.Context, handle string) (*domain.Identity, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

// BookingRepository persists lorry-receipt settlement views.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByLR(ctx context.Context, lrNumber string) (*domain.Booking, error)
	// ListRange returns bookings booked within [from, to].
	ListRange(ctx context.Context, from, to time.Time, page Page) ([]domain.Booking, int64, error)
	// AssignTransporter writes all derived commission fields of one booking
	// in a single update, so the booking is never observed half-assigned.
	AssignTransporter(ctx context.Context, lrNumber string, c domain.Commission) error
}

// TransporterRepository manages carrier master data.
type TransporterRepository interface {
	Create(ctx context.Context, t *domain.Transporter) (*domain.Transporter, error)
	FindByID(ctx context.Context, id string) (*domain.Transporter, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Transporter, error)
	Update(ctx context.Context, t *domain.Transporter) error
}

// BranchRepository manages branch master data.
type BranchRepository interface {
	Create(ctx context.Context, b *domain.Branch) (*domain.Branch, error)
	FindByCode(ctx context.Context, code string) (*domain.Branch, error)
	List(ctx context.Context) ([]domain.Branch, error)
}
