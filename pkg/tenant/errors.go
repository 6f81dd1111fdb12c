package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a slug cannot be resolved to an
	// active tenant, including when the backing store is unavailable.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidSlug is returned when a slug fails charset validation.
	ErrInvalidSlug = errors.New("invalid tenant slug")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
