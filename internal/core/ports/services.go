package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
)

// SessionLifecycle is the slice of the session controller the transport
// layer drives. Start/Stop and restoration stay with the process owner.
type SessionLifecycle interface {
	Login(ctx context.Context, handle, secret string) (*domain.Identity, string, error)
	Logout(ctx context.Context)
	RefreshSession(ctx context.Context) (*domain.Identity, string, error)
}

// AssignInput carries a batch transporter assignment request.
type AssignInput struct {
	TransporterID string
	LRNumbers     []string
	Actor         *domain.Identity
}

// AssignResult summarises a batch assignment.
type AssignResult struct {
	Assigned        int
	Failed          []string
	TotalCommission decimal.Decimal
	TotalNetPayable decimal.Decimal
}

// ReportInput scopes a settlement report. An empty BranchCode (or BranchAll)
// means the global, unfiltered view.
type ReportInput struct {
	From       time.Time
	To         time.Time
	BranchCode string
	Actor      *domain.Identity
}

// ReportRow is one booking in a settlement report.
type ReportRow struct {
	LRNumber         string                  `json:"lr_number"`
	BookedAt         time.Time               `json:"booked_at"`
	Charge           decimal.Decimal         `json:"charge"`
	PaymentDirection domain.PaymentDirection `json:"payment_direction"`
	OriginBranch     string                  `json:"origin_branch"`
	DestinationName  string                  `json:"destination_name"`
	Commission       *domain.Commission      `json:"commission,omitempty"`
}

// SettlementReport aggregates bookings owned by the requested scope.
type SettlementReport struct {
	Rows            []ReportRow     `json:"rows"`
	TotalCharge     decimal.Decimal `json:"total_charge"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalNetPayable decimal.Decimal `json:"total_net_payable"`
}

// SettlementService assigns transporters to bookings and builds settlement
// reports scoped by branch responsibility.
type SettlementService interface {
	AssignTransporter(ctx context.Context, in AssignInput) (*AssignResult, error)
	Report(ctx context.Context, in ReportInput) (*SettlementReport, error)
}

// CreateBookingInput carries the settlement-relevant fields of a new LR.
type CreateBookingInput struct {
	LRNumber         string
	BookedAt         time.Time
	Charge           decimal.Decimal
	PaymentDirection domain.PaymentDirection
	OriginBranch     string
	DestinationName  string
	Actor            *domain.Identity
}

// BookingService records and lists lorry receipts.
type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	ListRange(ctx context.Context, from, to time.Time, page Page) ([]domain.Booking, int64, error)
}

// MasterDataService manages transporter and branch master records.
type MasterDataService interface {
	CreateTransporter(ctx context.Context, t domain.Transporter) (*domain.Transporter, error)
	ListTransporters(ctx context.Context, activeOnly bool) ([]domain.Transporter, error)
	UpdateTransporter(ctx context.Context, t domain.Transporter) (*domain.Transporter, error)
	CreateBranch(ctx context.Context, b domain.Branch) (*domain.Branch, error)
	ListBranches(ctx context.Context) ([]domain.Branch, error)
}
