package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BusinessType determines which application sub-route a tenant's users
// land on after sign-in.
type BusinessType string

const (
	BusinessTypeRetailer BusinessType = "retailer"
	BusinessTypeSupplier BusinessType = "supplier"
)

// RoutePrefix returns the dashboard sub-route segment for the business type.
// Unknown values fall back to the retailer prefix so that redirect targets
// are always well-formed.
func (b BusinessType) RoutePrefix() string {
	if b == BusinessTypeSupplier {
		return "s"
	}
	return "r"
}

// Valid reports whether the business type is one of the known variants.
func (b BusinessType) Valid() bool {
	return b == BusinessTypeRetailer || b == BusinessTypeSupplier
}

// Tenant describes a tenant with the minimal information needed for
// request routing and data-isolation scoping.
type Tenant struct {
	ID           uuid.UUID    `json:"id" yaml:"id"`
	Slug         string       `json:"slug" yaml:"slug"`
	Name         string       `json:"name" yaml:"name"`
	BusinessType BusinessType `json:"business_type" yaml:"business_type"`
	Active       bool         `json:"active" yaml:"active"`
	CreatedAt    time.Time    `json:"created_at,omitempty" yaml:"-"`
}

// Provider loads tenant information from a persistent data source.
// It backs the registry's slow path; the registry treats any provider
// failure as "tenant not found".
type Provider interface {
	// GetBySlug retrieves an active tenant by its canonical slug.
	// Returns ErrTenantNotFound if no active tenant matches.
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, slug string) (*Tenant, error)

func (f ProviderFunc) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	return f(ctx, slug)
}
