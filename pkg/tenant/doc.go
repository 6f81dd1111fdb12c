// Package tenant resolves URL path segments to tenant descriptors.
//
// It combines three pieces:
//
//   - a pure slug extractor that pulls the first path segment, strips
//     preview/test/mock decorations, and validates the charset;
//   - a registry that checks an immutable static allow-list first and falls
//     back to a dynamic, cached lookup against a persistent store;
//   - context helpers for carrying the resolved tenant through a request.
//
// The registry is deliberately failure-tolerant: store outages, timeouts,
// and malformed rows all resolve to ErrTenantNotFound. Callers route an
// unresolvable tenant to login instead of surfacing an error, so the
// registry must never turn an infrastructure problem into a hard failure.
//
// Usage:
//
//	reg := tenant.NewRegistry(staticTenants,
//		tenant.WithProvider(tenant.NewPGProvider(pool)),
//		tenant.WithCache(tenant.NewRedisCache(rdb)),
//		tenant.WithLookupTimeout(2*time.Second),
//	)
//
//	t, err := reg.Resolve(ctx, tenant.ExtractSlug(r.URL.Path))
package tenant
