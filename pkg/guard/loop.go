package guard

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lospapatos/tenantgate/pkg/tenant"
)

// HeaderRedirectCount carries the redirect hop counter across successive
// internal redirects. All loop tracking lives in per-request headers, so
// the breaker stays stateless and safe under horizontal scaling.
const HeaderRedirectCount = "X-Redirect-Count"

// DefaultMaxRedirects is the hop-counter circuit-breaker threshold.
// A request arriving with this count may still be redirected once more;
// anything above it breaks the chain.
const DefaultMaxRedirects = 3

// RedirectContext is the per-request, ephemeral loop-tracking state.
type RedirectContext struct {
	// Count is the number of internal redirect hops so far.
	Count int
	// Referer is the previous URL, used for loop-pattern heuristics.
	Referer string
}

// RedirectContextFromRequest builds the redirect context from the hop
// counter header and the Referer header. A missing or malformed counter
// reads as zero.
func RedirectContextFromRequest(r *http.Request) RedirectContext {
	count, err := strconv.Atoi(r.Header.Get(HeaderRedirectCount))
	if err != nil || count < 0 {
		count = 0
	}
	return RedirectContext{
		Count:   count,
		Referer: r.Header.Get("Referer"),
	}
}

// Next returns the context to forward with the next redirect hop.
func (rc RedirectContext) Next() RedirectContext {
	rc.Count++
	return rc
}

// CheckLoop decides whether the redirect chain must be broken.
// Returns ErrRedirectLoop once the hop counter exceeds max, or
// ErrDashboardLoop when the referer already points at a dashboard-shaped
// path while at least one hop has happened. The heuristic trades a small
// false-positive rate for terminating dashboard cycles early.
func (rc RedirectContext) CheckLoop(max int) error {
	if rc.Count > max {
		return ErrRedirectLoop
	}
	if rc.Count >= 1 && refererIsDashboard(rc.Referer) {
		return ErrDashboardLoop
	}
	return nil
}

func refererIsDashboard(referer string) bool {
	if referer == "" {
		return false
	}
	u, err := url.Parse(referer)
	if err != nil {
		return false
	}
	return isDashboardPath(u.Path)
}

// isDashboardPath matches the generic dashboard path and tenant-scoped
// dashboards of either business type: /dashboard, /{slug}/r/dashboard,
// /{slug}/s/dashboard.
func isDashboardPath(path string) bool {
	path = strings.TrimSuffix(path, "/")
	if path == "/dashboard" {
		return true
	}

	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) != 3 || parts[2] != "dashboard" {
		return false
	}
	if parts[1] != "r" && parts[1] != "s" {
		return false
	}
	return tenant.ValidSlug(parts[0])
}
