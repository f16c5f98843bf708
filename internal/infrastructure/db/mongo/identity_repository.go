package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

const identityCollection = "identities"

// IdentityRepository loads operator profiles through the generic gateway.
type IdentityRepository struct {
	gw ports.Gateway
}

func NewIdentityRepository(gw ports.Gateway) *IdentityRepository {
	return &IdentityRepository{gw: gw}
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.findOne(ctx, ports.Filter{"_id": id})
}

func (r *IdentityRepository) FindByHandle(ctx context.Context, handle string) (*domain.Identity, error) {
	return r.findOne(ctx, ports.Filter{"handle": handle})
}

func (r *IdentityRepository) findOne(ctx context.Context, filter ports.Filter) (*domain.Identity, error) {
	recs, _, err := r.gw.Get(ctx, identityCollection, filter, ports.Page{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	if len(recs) == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return identityFromRecord(recs[0]), nil
}

func (r *IdentityRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.gw.Put(ctx, identityCollection, id, ports.Record{"last_login_at": at.UTC()})
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrProfileNotFound
	}
	return err
}

// identityFromRecord maps a raw record onto the domain type. Defaults are
// deliberate: a missing active flag reads as inactive, a missing role
// degrades to staff, and a missing branch grants access to nothing.
func identityFromRecord(rec ports.Record) *domain.Identity {
	ident := &domain.Identity{
		ID:                asString(rec["_id"]),
		Handle:            asString(rec["handle"]),
		Name:              asString(rec["name"]),
		PasswordHash:      asString(rec["password_hash"]),
		Role:              asString(rec["role"]),
		Branch:            asString(rec["branch"]),
		Active:            asBool(rec["active"]),
		Initials:          asString(rec["initials"]),
		LastLoginAt:       asTime(rec["last_login_at"]),
		MustResetPassword: asBool(rec["must_reset_password"]),
	}
	if !domain.ValidRole(ident.Role) {
		ident.Role = domain.RoleStaff
	}
	if ident.Initials == "" {
		ident.Initials = initialsFor(ident.Name)
	}
	return ident
}
