// Package guard implements the path-based multi-tenant access guard.
//
// Per request the guard runs a small state machine over three inputs: the
// tenant slug extracted from the URL path, the registry's resolution of
// that slug, and the session token from the auth cookie. The outcome is
// one of:
//
//   - pass-through with X-Tenant-Path and X-Tenant-ID headers attached and
//     the tenant placed in the request context;
//   - redirect to login, optionally with a callbackUrl preserving the
//     intended destination and an error flag;
//   - redirect to registration completion, carrying the authenticated
//     email;
//   - redirect from the central domain's login or generic dashboard to the
//     session's tenant-scoped dashboard.
//
// Two central-domain special cases exist. The login portal redirects
// already-authenticated, tenant-bound sessions straight to their dashboard
// instead of showing the login form. The generic /dashboard path, reached
// right after an OAuth callback that cannot encode the tenant, resolves
// the tenant from the session and redirects to the scoped dashboard; it is
// the primary source of redirect loops, so the stateless loop breaker
// (hop-counter header plus referer heuristic) runs there first.
//
// The guard deliberately never returns an error page: a middleware failure
// that blocks all traffic is categorically worse than a safe fallback
// redirect to login, so registry outages, invalid sessions, and loop
// detections all resolve to redirects.
package guard
