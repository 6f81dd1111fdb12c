package guard

import "errors"

var (
	// ErrUnresolvedTenant signals a path segment that maps to no known
	// tenant. Routing signal, not a failure; resolved by a login redirect.
	ErrUnresolvedTenant = errors.New("guard: unresolved tenant")

	// ErrUnauthenticated signals that no valid session was found.
	ErrUnauthenticated = errors.New("guard: unauthenticated")

	// ErrRegistrationPending signals a valid session whose tenant
	// onboarding is incomplete.
	ErrRegistrationPending = errors.New("guard: registration pending")

	// ErrCrossTenantAccess signals a session bound to one tenant hitting
	// another tenant's path. Denied fail-closed.
	ErrCrossTenantAccess = errors.New("guard: cross-tenant access denied")

	// ErrRedirectLoop signals that the redirect hop counter exceeded the
	// limit.
	ErrRedirectLoop = errors.New("guard: redirect loop detected")

	// ErrDashboardLoop signals the referer heuristic caught a probable
	// dashboard redirect cycle before the hard counter limit.
	ErrDashboardLoop = errors.New("guard: dashboard redirect loop detected")
)
