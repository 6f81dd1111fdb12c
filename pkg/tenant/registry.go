package tenant

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Registry resolves canonical slugs to tenant descriptors.
//
// Resolution tries an immutable static map first (known, stable tenants;
// no I/O), then a cache, then the dynamic provider. Any provider failure,
// including timeouts and store outages, degrades to ErrTenantNotFound so
// that a registry outage never hard-fails the request pipeline.
type Registry struct {
	static        map[string]Tenant
	provider      Provider
	cache         Cache
	cacheTTL      time.Duration
	lookupTimeout time.Duration
	logger        *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithProvider sets the dynamic lookup backend for slugs missing from the
// static map.
func WithProvider(p Provider) RegistryOption {
	return func(r *Registry) { r.provider = p }
}

// WithCache sets the cache used in front of the dynamic provider.
func WithCache(c Cache) RegistryOption {
	return func(r *Registry) { r.cache = c }
}

// WithCacheTTL sets how long dynamic lookups are cached.
func WithCacheTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) {
		if ttl > 0 {
			r.cacheTTL = ttl
		}
	}
}

// WithLookupTimeout bounds a single dynamic lookup. On timeout the slug is
// treated as not found rather than blocking the request.
func WithLookupTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.lookupTimeout = d
		}
	}
}

// WithLogger sets the logger used to report degraded lookups.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry builds a registry around an explicit static allow-list.
// The static map is copied; the registry never mutates it afterwards, so
// lookups are safe without locking.
func NewRegistry(static map[string]Tenant, opts ...RegistryOption) *Registry {
	r := &Registry{
		static:        make(map[string]Tenant, len(static)),
		cache:         NewNoopCache(),
		cacheTTL:      5 * time.Minute,
		lookupTimeout: 2 * time.Second,
		logger:        slog.New(slog.DiscardHandler),
	}
	for slug, t := range static {
		if t.Slug == "" {
			t.Slug = slug
		}
		r.static[slug] = t
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a canonical slug to its tenant descriptor.
// Returns ErrTenantNotFound for unknown slugs and for any backend failure.
func (r *Registry) Resolve(ctx context.Context, slug string) (*Tenant, error) {
	if !ValidSlug(slug) {
		return nil, ErrTenantNotFound
	}

	if t, ok := r.static[slug]; ok {
		return &t, nil
	}

	if t, ok := r.cache.Get(ctx, slug); ok {
		return t, nil
	}

	if r.provider == nil {
		return nil, ErrTenantNotFound
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	t, err := r.provider.GetBySlug(lookupCtx, slug)
	if err != nil {
		if !errors.Is(err, ErrTenantNotFound) {
			r.logger.WarnContext(ctx, "tenant lookup degraded to not-found",
				slog.String("slug", slug),
				slog.Any("error", err),
			)
		}
		return nil, ErrTenantNotFound
	}
	if t == nil || !t.Active {
		return nil, ErrTenantNotFound
	}

	r.cache.Set(ctx, slug, t, r.cacheTTL)
	return t, nil
}

// Known reports whether the slug is part of the static allow-list.
func (r *Registry) Known(slug string) bool {
	_, ok := r.static[slug]
	return ok
}
