package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/lospapatos/tenantgate/pkg/session"
	"github.com/lospapatos/tenantgate/pkg/tenant"
)

// Response headers set on successful pass-through for downstream
// data-isolation scoping.
const (
	HeaderTenantPath = "X-Tenant-Path"
	HeaderTenantID   = "X-Tenant-ID"
)

// UnknownTenantID is the sentinel attached when tenant resolution fails
// after authentication already succeeded. A soft routing ambiguity must not
// become a hard 500.
const UnknownTenantID = "unknown"

// Query parameters and error flags used on redirect targets.
const (
	ParamCallbackURL = "callbackUrl"
	ParamError       = "error"
	ParamEmail       = "email"

	ErrorFlagRedirectLoop  = "redirect_loop"
	ErrorFlagDashboardLoop = "dashboard_loop"
	ErrorFlagForbidden     = "forbidden"
)

// TenantResolver resolves a canonical slug to a tenant descriptor.
// *tenant.Registry satisfies this interface.
type TenantResolver interface {
	Resolve(ctx context.Context, slug string) (*tenant.Tenant, error)
}

// Authenticator validates the session carried by a request.
// *session.Authenticator satisfies this interface.
type Authenticator interface {
	Authenticate(r *http.Request) (*session.Token, error)
}

// Guard is the access-guard state machine. Per request it combines slug
// extraction, registry resolution, and session authentication into one of
// four outcomes: pass through with tenant headers, redirect to login,
// redirect to registration, or redirect to the tenant's dashboard.
//
// The guard never surfaces an internal error to the end user: every
// failure degrades to a safe redirect.
type Guard struct {
	registry TenantResolver
	auth     Authenticator

	baseURL       *url.URL
	centralHosts  []string
	loginPath     string
	registerPath  string
	dashboardPath string
	skipPrefixes  []string
	maxRedirects  int
	logger        *slog.Logger
}

// New constructs a guard. baseURL is the fully-qualified application root
// (e.g. "https://app.lospapatos.com") under which all redirect targets are
// built; its host doubles as the default central domain.
func New(registry TenantResolver, auth Authenticator, baseURL string, opts ...Option) (*Guard, error) {
	if registry == nil {
		return nil, errors.New("guard: missing tenant resolver")
	}
	if auth == nil {
		return nil, errors.New("guard: missing authenticator")
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("guard: invalid base URL %q", baseURL)
	}

	g := &Guard{
		registry:      registry,
		auth:          auth,
		baseURL:       base,
		centralHosts:  []string{base.Host},
		loginPath:     "/login",
		registerPath:  "/register",
		dashboardPath: "/dashboard",
		skipPrefixes:  []string{"/api/", "/static/", "/assets/", "/health", "/favicon.ico"},
		maxRedirects:  DefaultMaxRedirects,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Middleware returns the guard as standard net/http middleware.
func (g *Guard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g.serve(w, r, next)
		})
	}
}

func (g *Guard) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	for _, prefix := range g.skipPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			next.ServeHTTP(w, r)
			return
		}
	}

	rctx := RedirectContextFromRequest(r)
	slug := tenant.ExtractSlug(r.URL.Path)

	if slug == "" {
		if g.isCentralHost(r.Host) {
			switch trimTrailingSlash(r.URL.Path) {
			case g.loginPath:
				g.serveLoginPortal(w, r, rctx, next)
				return
			case g.dashboardPath:
				g.serveGenericDashboard(w, r, rctx)
				return
			}
		}
		// No tenant in the path and no special case: defer to the
		// surrounding application routing.
		next.ServeHTTP(w, r)
		return
	}

	t, err := g.registry.Resolve(r.Context(), slug)
	if err != nil {
		g.logger.DebugContext(r.Context(), "tenant unresolved, redirecting to login",
			slog.String("slug", slug))
		g.redirectToLogin(w, r, rctx, g.absoluteURL(r.URL.RequestURI()), "")
		return
	}

	tok, err := g.auth.Authenticate(r)
	if err != nil {
		g.redirectToLogin(w, r, rctx, g.tenantDashboardURL(t.Slug, t.BusinessType), "")
		return
	}

	if tok.RegistrationRequired {
		g.redirectToRegistration(w, r, rctx, tok.Email)
		return
	}

	// Fail closed on cross-tenant access: a session bound to tenant A is
	// never trusted against tenant B's path.
	if tok.Bound() && !tok.BoundTo(t.Slug) {
		g.logger.WarnContext(r.Context(), "cross-tenant access denied",
			slog.String("session_tenant", tok.TenantSlug),
			slog.String("requested_tenant", t.Slug),
			slog.String("email", tok.Email),
		)
		g.redirectToLogin(w, r, rctx, g.absoluteURL(r.URL.RequestURI()), ErrorFlagForbidden)
		return
	}

	g.passThrough(w, r, next, t)
}

// passThrough grants tenant-scoped access: tenant headers are attached for
// downstream consumption and the request continues with the tenant in
// context.
func (g *Guard) passThrough(w http.ResponseWriter, r *http.Request, next http.Handler, t *tenant.Tenant) {
	id := UnknownTenantID
	if t != nil && t.ID != uuid.Nil {
		id = t.ID.String()
	}
	slug := ""
	if t != nil {
		slug = t.Slug
	}

	w.Header().Set(HeaderTenantPath, slug)
	w.Header().Set(HeaderTenantID, id)

	next.ServeHTTP(w, r.WithContext(tenant.WithTenant(r.Context(), t)))
}

// serveLoginPortal handles the central-domain login path. An already
// authenticated session with a tenant binding skips the login form and
// goes straight to its dashboard; a registration-pending session goes to
// registration; everything else falls through to render the form.
func (g *Guard) serveLoginPortal(w http.ResponseWriter, r *http.Request, rctx RedirectContext, next http.Handler) {
	tok, err := g.auth.Authenticate(r)
	if err != nil {
		next.ServeHTTP(w, r)
		return
	}

	if tok.RegistrationRequired {
		g.redirectToRegistration(w, r, rctx, tok.Email)
		return
	}
	if !tok.Bound() {
		next.ServeHTTP(w, r)
		return
	}

	if err := rctx.CheckLoop(g.maxRedirects); err != nil {
		g.breakLoop(w, r, rctx, err)
		return
	}

	g.redirect(w, r, rctx, g.sessionDashboardURL(r.Context(), tok))
}

// serveGenericDashboard handles the central-domain unscoped dashboard,
// typically reached right after an OAuth callback that cannot encode the
// tenant path. The tenant comes from the session, not the path. This is
// the primary source of redirect loops, so the loop breaker runs first.
func (g *Guard) serveGenericDashboard(w http.ResponseWriter, r *http.Request, rctx RedirectContext) {
	if err := rctx.CheckLoop(g.maxRedirects); err != nil {
		g.breakLoop(w, r, rctx, err)
		return
	}

	tok, err := g.auth.Authenticate(r)
	if err != nil {
		g.redirectToLogin(w, r, rctx, g.absoluteURL(g.dashboardPath), "")
		return
	}

	if tok.RegistrationRequired || !tok.Bound() {
		g.redirectToRegistration(w, r, rctx, tok.Email)
		return
	}

	g.redirect(w, r, rctx, g.sessionDashboardURL(r.Context(), tok))
}

func (g *Guard) breakLoop(w http.ResponseWriter, r *http.Request, rctx RedirectContext, err error) {
	flag := ErrorFlagRedirectLoop
	if errors.Is(err, ErrDashboardLoop) {
		flag = ErrorFlagDashboardLoop
	}
	g.logger.WarnContext(r.Context(), "redirect chain broken",
		slog.Int("redirect_count", rctx.Count),
		slog.String("referer", rctx.Referer),
		slog.String("flag", flag),
	)
	g.redirectToLogin(w, r, rctx, "", flag)
}

// sessionDashboardURL builds the tenant-scoped dashboard URL for a bound
// session. The token's cached business type is preferred; if it is missing
// or bogus, the registry is consulted, and as a last resort the retailer
// route is used so the redirect target is always well-formed.
func (g *Guard) sessionDashboardURL(ctx context.Context, tok *session.Token) string {
	bt := tok.BusinessType
	if !bt.Valid() {
		if t, err := g.registry.Resolve(ctx, tok.TenantSlug); err == nil {
			bt = t.BusinessType
		} else {
			bt = tenant.BusinessTypeRetailer
		}
	}
	return g.tenantDashboardURL(tok.TenantSlug, bt)
}

func (g *Guard) tenantDashboardURL(slug string, bt tenant.BusinessType) string {
	return g.absoluteURL("/" + slug + "/" + bt.RoutePrefix() + "/dashboard")
}

func (g *Guard) redirectToLogin(w http.ResponseWriter, r *http.Request, rctx RedirectContext, callbackURL, errorFlag string) {
	target := g.baseURL.JoinPath(g.loginPath)
	q := url.Values{}
	if callbackURL != "" {
		q.Set(ParamCallbackURL, callbackURL)
	}
	if errorFlag != "" {
		q.Set(ParamError, errorFlag)
	}
	target.RawQuery = q.Encode()
	g.redirect(w, r, rctx, target.String())
}

func (g *Guard) redirectToRegistration(w http.ResponseWriter, r *http.Request, rctx RedirectContext, email string) {
	target := g.baseURL.JoinPath(g.registerPath)
	if email != "" {
		q := url.Values{}
		q.Set(ParamEmail, email)
		target.RawQuery = q.Encode()
	}
	g.redirect(w, r, rctx, target.String())
}

// redirect issues the redirect and forwards the incremented hop counter to
// the next hop.
func (g *Guard) redirect(w http.ResponseWriter, r *http.Request, rctx RedirectContext, location string) {
	w.Header().Set(HeaderRedirectCount, strconv.Itoa(rctx.Next().Count))
	http.Redirect(w, r, location, http.StatusTemporaryRedirect)
}

func (g *Guard) absoluteURL(pathAndQuery string) string {
	u := *g.baseURL
	if parsed, err := url.Parse(pathAndQuery); err == nil {
		u.Path = parsed.Path
		u.RawQuery = parsed.RawQuery
	} else {
		u.Path = pathAndQuery
	}
	return u.String()
}

func (g *Guard) isCentralHost(host string) bool {
	host = stripPort(host)
	for _, h := range g.centralHosts {
		if strings.EqualFold(host, stripPort(h)) {
			return true
		}
	}
	return false
}

func stripPort(host string) string {
	if idx := strings.LastIndexByte(host, ':'); idx != -1 && !strings.Contains(host[idx:], "]") {
		return host[:idx]
	}
	return host
}

func trimTrailingSlash(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}
	return path
}
