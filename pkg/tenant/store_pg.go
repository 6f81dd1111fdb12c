package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool the store needs, kept narrow so
// tests can substitute a fake row source.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGProvider resolves tenants from a Postgres-backed registry table.
type PGProvider struct {
	db Querier
}

// NewPGProvider creates a provider backed by the given pool or connection.
func NewPGProvider(db Querier) *PGProvider {
	return &PGProvider{db: db}
}

const getBySlugQuery = `
SELECT id::text, slug, name, business_type, status = 'active', created_at
FROM tenants
WHERE slug = $1
`

// GetBySlug fetches an active tenant by slug. A missing row maps to
// ErrTenantNotFound; other errors are returned wrapped so the registry can
// log the degradation before swallowing it.
func (p *PGProvider) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	var (
		t     Tenant
		rawID string
	)
	err := p.db.QueryRow(ctx, getBySlugQuery, slug).Scan(
		&rawID, &t.Slug, &t.Name, &t.BusinessType, &t.Active, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("query tenant %q: %w", slug, err)
	}

	t.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse tenant id for %q: %w", slug, err)
	}
	if !t.Active {
		return nil, ErrTenantNotFound
	}
	return &t, nil
}
