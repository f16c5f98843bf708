package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

const bookingCollection = "bookings"

// BookingRepository persists lorry-receipt settlement views. The LR number
// is the natural key and doubles as the record id.
type BookingRepository struct {
	gw ports.Gateway
}

func NewBookingRepository(gw ports.Gateway) *BookingRepository {
	return &BookingRepository{gw: gw}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	rec := ports.Record{
		"_id":               b.LRNumber,
		"booked_at":         b.BookedAt.UTC(),
		"charge":            b.Charge.String(),
		"payment_direction": string(b.PaymentDirection),
		"origin_branch":     b.OriginBranch,
		"destination_name":  b.DestinationName,
	}
	created, err := r.gw.Post(ctx, bookingCollection, rec)
	if err != nil {
		return nil, err
	}
	return bookingFromRecord(created), nil
}

func (r *BookingRepository) FindByLR(ctx context.Context, lrNumber string) (*domain.Booking, error) {
	recs, _, err := r.gw.Get(ctx, bookingCollection, ports.Filter{"_id": lrNumber}, ports.Page{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if len(recs) == 0 {
		return nil, domain.ErrBookingNotFound
	}
	return bookingFromRecord(recs[0]), nil
}

func (r *BookingRepository) ListRange(ctx context.Context, from, to time.Time, page ports.Page) ([]domain.Booking, int64, error) {
	filter := ports.Filter{
		"booked_at": map[string]any{"$gte": from.UTC(), "$lte": to.UTC()},
	}
	recs, total, err := r.gw.Get(ctx, bookingCollection, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	bookings := make([]domain.Booking, 0, len(recs))
	for _, rec := range recs {
		bookings = append(bookings, *bookingFromRecord(rec))
	}
	return bookings, total, nil
}

// AssignTransporter writes every derived settlement field of one booking in
// a single update, so readers never observe the commission set while the net
// payable is stale.
func (r *BookingRepository) AssignTransporter(ctx context.Context, lrNumber string, c domain.Commission) error {
	update := ports.Record{
		"transporter_id":     c.TransporterID,
		"transporter_name":   c.TransporterName,
		"commission_percent": c.Percent.String(),
		"commission_amount":  c.Amount.String(),
		"net_payable":        c.NetPayable.String(),
		"assigned_at":        c.AssignedAt.UTC(),
	}
	if _, err := r.gw.Put(ctx, bookingCollection, lrNumber, update); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("assign transporter: %w", err)
	}
	return nil
}

// bookingFromRecord maps a raw record onto the domain type. The commission
// block exists only when a transporter reference is present; all three
// derived fields travel together.
func bookingFromRecord(rec ports.Record) *domain.Booking {
	b := &domain.Booking{
		LRNumber:         asString(rec["_id"]),
		BookedAt:         asTime(rec["booked_at"]),
		Charge:           asDecimal(rec["charge"]),
		PaymentDirection: domain.PaymentDirection(asString(rec["payment_direction"])),
		OriginBranch:     asString(rec["origin_branch"]),
		DestinationName:  asString(rec["destination_name"]),
	}
	if tid := asString(rec["transporter_id"]); tid != "" {
		b.Commission = &domain.Commission{
			TransporterID:   tid,
			TransporterName: asString(rec["transporter_name"]),
			Percent:         asDecimal(rec["commission_percent"]),
			Amount:          asDecimal(rec["commission_amount"]),
			NetPayable:      asDecimal(rec["net_payable"]),
			AssignedAt:      asTime(rec["assigned_at"]),
		}
	}
	return b
}
