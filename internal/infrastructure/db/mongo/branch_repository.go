package mongo

import (
	"context"
	"fmt"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

const branchCollection = "branches"

// BranchRepository manages branch master records, keyed by branch code.
type BranchRepository struct {
	gw ports.Gateway
}

func NewBranchRepository(gw ports.Gateway) *BranchRepository {
	return &BranchRepository{gw: gw}
}

func (r *BranchRepository) Create(ctx context.Context, b *domain.Branch) (*domain.Branch, error) {
	rec := ports.Record{
		"_id":          b.Code,
		"display_name": b.DisplayName,
		"active":       b.Active,
	}
	created, err := r.gw.Post(ctx, branchCollection, rec)
	if err != nil {
		return nil, err
	}
	return branchFromRecord(created), nil
}

func (r *BranchRepository) FindByCode(ctx context.Context, code string) (*domain.Branch, error) {
	recs, _, err := r.gw.Get(ctx, branchCollection, ports.Filter{"_id": code}, ports.Page{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("find branch: %w", err)
	}
	if len(recs) == 0 {
		return nil, domain.ErrBranchNotFound
	}
	return branchFromRecord(recs[0]), nil
}

func (r *BranchRepository) List(ctx context.Context) ([]domain.Branch, error) {
	recs, _, err := r.gw.Get(ctx, branchCollection, ports.Filter{}, ports.Page{})
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	branches := make([]domain.Branch, 0, len(recs))
	for _, rec := range recs {
		branches = append(branches, *branchFromRecord(rec))
	}
	return branches, nil
}

func branchFromRecord(rec ports.Record) *domain.Branch {
	return &domain.Branch{
		Code:        asString(rec["_id"]),
		DisplayName: asString(rec["display_name"]),
		Active:      asBool(rec["active"]),
	}
}
