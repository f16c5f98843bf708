package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

const transporterCollection = "transporters"

// TransporterRepository manages carrier master records.
type TransporterRepository struct {
	gw ports.Gateway
}

func NewTransporterRepository(gw ports.Gateway) *TransporterRepository {
	return &TransporterRepository{gw: gw}
}

func (r *TransporterRepository) Create(ctx context.Context, t *domain.Transporter) (*domain.Transporter, error) {
	rec := ports.Record{
		"name":               t.Name,
		"commission_percent": t.CommissionPercent.String(),
		"active":             t.Active,
	}
	if t.ID != "" {
		rec["_id"] = t.ID
	}
	created, err := r.gw.Post(ctx, transporterCollection, rec)
	if err != nil {
		return nil, err
	}
	return transporterFromRecord(created), nil
}

func (r *TransporterRepository) FindByID(ctx context.Context, id string) (*domain.Transporter, error) {
	recs, _, err := r.gw.Get(ctx, transporterCollection, ports.Filter{"_id": id}, ports.Page{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("find transporter: %w", err)
	}
	if len(recs) == 0 {
		return nil, domain.ErrTransporterNotFound
	}
	return transporterFromRecord(recs[0]), nil
}

func (r *TransporterRepository) List(ctx context.Context, activeOnly bool) ([]domain.Transporter, error) {
	filter := ports.Filter{}
	if activeOnly {
		filter["active"] = true
	}
	recs, _, err := r.gw.Get(ctx, transporterCollection, filter, ports.Page{})
	if err != nil {
		return nil, fmt.Errorf("list transporters: %w", err)
	}

	transporters := make([]domain.Transporter, 0, len(recs))
	for _, rec := range recs {
		transporters = append(transporters, *transporterFromRecord(rec))
	}
	return transporters, nil
}

func (r *TransporterRepository) Update(ctx context.Context, t *domain.Transporter) error {
	update := ports.Record{
		"name":               t.Name,
		"commission_percent": t.CommissionPercent.String(),
		"active":             t.Active,
	}
	if _, err := r.gw.Put(ctx, transporterCollection, t.ID, update); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrTransporterNotFound
		}
		return fmt.Errorf("update transporter: %w", err)
	}
	return nil
}

func transporterFromRecord(rec ports.Record) *domain.Transporter {
	return &domain.Transporter{
		ID:                asString(rec["_id"]),
		Name:              asString(rec["name"]),
		CommissionPercent: asDecimal(rec["commission_percent"]),
		Active:            asBool(rec["active"]),
	}
}
