package secheaders

import "net/http"

// Default header values applied to every successfully routed response.
const (
	defaultHSTS           = "max-age=63072000; includeSubDomains; preload"
	defaultFrameOptions   = "DENY"
	defaultContentType    = "nosniff"
	defaultXSSProtection  = "1; mode=block"
	defaultReferrerPolicy = "strict-origin-when-cross-origin"
	defaultCSP            = "default-src 'self'; script-src 'self' 'unsafe-inline' 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' data:; connect-src 'self' https:; frame-ancestors 'none'"
	defaultPermissions    = "camera=(), microphone=(), geolocation=(), payment=()"
)

type config struct {
	hsts           string
	frameOptions   string
	referrerPolicy string
	csp            string
	permissions    string
}

// Option overrides one of the default header values.
type Option func(*config)

// WithHSTS overrides the Strict-Transport-Security value.
func WithHSTS(v string) Option {
	return func(c *config) { c.hsts = v }
}

// WithFrameOptions overrides the X-Frame-Options value.
func WithFrameOptions(v string) Option {
	return func(c *config) { c.frameOptions = v }
}

// WithReferrerPolicy overrides the Referrer-Policy value.
func WithReferrerPolicy(v string) Option {
	return func(c *config) { c.referrerPolicy = v }
}

// WithContentSecurityPolicy overrides the Content-Security-Policy value.
func WithContentSecurityPolicy(v string) Option {
	return func(c *config) { c.csp = v }
}

// WithPermissionsPolicy overrides the Permissions-Policy value.
func WithPermissionsPolicy(v string) Option {
	return func(c *config) { c.permissions = v }
}

// Middleware attaches the fixed security header set to every response.
// Stateless and tenant-agnostic.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		hsts:           defaultHSTS,
		frameOptions:   defaultFrameOptions,
		referrerPolicy: defaultReferrerPolicy,
		csp:            defaultCSP,
		permissions:    defaultPermissions,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Strict-Transport-Security", cfg.hsts)
			h.Set("X-Frame-Options", cfg.frameOptions)
			h.Set("X-Content-Type-Options", defaultContentType)
			h.Set("X-XSS-Protection", defaultXSSProtection)
			h.Set("Referrer-Policy", cfg.referrerPolicy)
			h.Set("Content-Security-Policy", cfg.csp)
			h.Set("Permissions-Policy", cfg.permissions)

			next.ServeHTTP(w, r)
		})
	}
}
