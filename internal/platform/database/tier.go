package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Tier names a datastore credential tier.
type Tier string

const (
	TierPublic  Tier = "public"
	TierService Tier = "service"
)

// ErrTierViolation is returned by every query issued on the service tier from a
// context that was not stamped for it.
var ErrTierViolation = errors.New("database: privileged tier used outside an admin context")

type tierKey struct{}

// WithTier stamps ctx with the tier its queries are allowed to use.
func WithTier(ctx context.Context, tier Tier) context.Context {
	return context.WithValue(ctx, tierKey{}, tier)
}

// TierFrom returns the tier stamped on ctx, or TierPublic.
func TierFrom(ctx context.Context) Tier {
	if t, ok := ctx.Value(tierKey{}).(Tier); ok {
		return t
	}
	return TierPublic
}

// PublicDB is the anonymous, RLS-bound connection.
type PublicDB struct {
	*gorm.DB
}

// ServiceDB is the privileged connection. Only admin repositories accept it.
type ServiceDB struct {
	*gorm.DB
}

// WithContext shadows gorm.DB.WithContext and poisons the session unless ctx
// carries the service tier.
func (d *ServiceDB) WithContext(ctx context.Context) *gorm.DB {
	tx := d.DB.WithContext(ctx)
	if TierFrom(ctx) != TierService {
		_ = tx.AddError(ErrTierViolation)
	}
	return tx
}
