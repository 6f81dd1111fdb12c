package guard

import "log/slog"

// Option configures the guard.
type Option func(*Guard)

// WithLoginPath overrides the login path on the central domain.
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// WithRegisterPath overrides the registration-completion path.
func WithRegisterPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.registerPath = path
		}
	}
}

// WithDashboardPath overrides the generic (unscoped) dashboard path that
// OAuth callbacks land on.
func WithDashboardPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.dashboardPath = path
		}
	}
}

// WithCentralHosts sets the hosts recognized as the application's central
// domain. Defaults to the base URL's host.
func WithCentralHosts(hosts ...string) Option {
	return func(g *Guard) {
		if len(hosts) > 0 {
			g.centralHosts = hosts
		}
	}
}

// WithSkipPrefixes sets path prefixes that bypass the guard entirely
// (API routes, static assets, health checks).
func WithSkipPrefixes(prefixes ...string) Option {
	return func(g *Guard) {
		g.skipPrefixes = prefixes
	}
}

// WithMaxRedirects overrides the loop-breaker hop limit.
func WithMaxRedirects(max int) Option {
	return func(g *Guard) {
		if max > 0 {
			g.maxRedirects = max
		}
	}
}

// WithLogger sets the logger for guard decisions.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}
