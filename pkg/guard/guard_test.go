package guard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lospapatos/tenantgate/pkg/guard"
	"github.com/lospapatos/tenantgate/pkg/session"
	"github.com/lospapatos/tenantgate/pkg/tenant"
)

const baseURL = "https://app.lospapatos.com"

var (
	egdcID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	famiID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	osielID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	mollyID = uuid.MustParse("44444444-4444-4444-4444-444444444444")
)

type fakeRegistry map[string]*tenant.Tenant

func (f fakeRegistry) Resolve(ctx context.Context, slug string) (*tenant.Tenant, error) {
	if t, ok := f[slug]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

type fakeAuth struct {
	tok    *session.Token
	called bool
}

func (f *fakeAuth) Authenticate(r *http.Request) (*session.Token, error) {
	f.called = true
	if f.tok == nil {
		return nil, session.ErrUnauthenticated
	}
	return f.tok, nil
}

func testRegistry() fakeRegistry {
	return fakeRegistry{
		"egdc":  {ID: egdcID, Slug: "egdc", Name: "EGDC", BusinessType: tenant.BusinessTypeRetailer, Active: true},
		"fami":  {ID: famiID, Slug: "fami", Name: "Fami", BusinessType: tenant.BusinessTypeRetailer, Active: true},
		"osiel": {ID: osielID, Slug: "osiel", Name: "Osiel", BusinessType: tenant.BusinessTypeSupplier, Active: true},
		"molly": {ID: mollyID, Slug: "molly", Name: "Molly", BusinessType: tenant.BusinessTypeRetailer, Active: true},
	}
}

func newGuard(t *testing.T, auth guard.Authenticator, opts ...guard.Option) *guard.Guard {
	t.Helper()
	g, err := guard.New(testRegistry(), auth, baseURL, opts...)
	require.NoError(t, err)
	return g
}

type nextRecorder struct {
	called bool
	tenant *tenant.Tenant
}

func (n *nextRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.called = true
		n.tenant, _ = tenant.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func serve(g *guard.Guard, r *http.Request, next http.Handler) *httptest.ResponseRecorder {
	if next == nil {
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	rec := httptest.NewRecorder()
	g.Middleware()(next).ServeHTTP(rec, r)
	return rec
}

func location(t *testing.T, rec *httptest.ResponseRecorder) *url.URL {
	t.Helper()
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return loc
}

func boundToken(slug string, bt tenant.BusinessType) *session.Token {
	return &session.Token{
		Email:        "user@example.com",
		TenantSlug:   slug,
		BusinessType: bt,
	}
}

func TestGuardTenantPaths(t *testing.T) {
	t.Parallel()

	t.Run("no session redirects to login with tenant callback", func(t *testing.T) {
		t.Parallel()

		// Scenario: /egdc/dashboard with no session cookie.
		g := newGuard(t, &fakeAuth{})
		req := httptest.NewRequest("GET", baseURL+"/egdc/dashboard", nil)

		loc := location(t, serve(g, req, nil))
		assert.Equal(t, "/login", loc.Path)
		assert.Equal(t, baseURL+"/egdc/r/dashboard", loc.Query().Get(guard.ParamCallbackURL))
		assert.Empty(t, loc.Query().Get(guard.ParamError))
	})

	t.Run("decorated slug passes through with tenant headers", func(t *testing.T) {
		t.Parallel()

		// Scenario: /preview-fami/inventory with a session bound to fami.
		g := newGuard(t, &fakeAuth{tok: boundToken("fami", tenant.BusinessTypeRetailer)})
		req := httptest.NewRequest("GET", baseURL+"/preview-fami/inventory", nil)

		next := &nextRecorder{}
		rec := serve(g, req, next.handler())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, next.called)
		assert.Equal(t, "fami", rec.Header().Get(guard.HeaderTenantPath))
		assert.Equal(t, famiID.String(), rec.Header().Get(guard.HeaderTenantID))
		require.NotNil(t, next.tenant)
		assert.Equal(t, "fami", next.tenant.Slug)
	})

	t.Run("unknown tenant redirects to login without session check", func(t *testing.T) {
		t.Parallel()

		// Scenario: /unknown-tenant/page; the tenant itself is invalid,
		// so authentication must not even be attempted.
		auth := &fakeAuth{tok: boundToken("egdc", tenant.BusinessTypeRetailer)}
		g := newGuard(t, auth)
		req := httptest.NewRequest("GET", baseURL+"/unknown-tenant/page", nil)

		loc := location(t, serve(g, req, nil))
		assert.Equal(t, "/login", loc.Path)
		assert.Equal(t, baseURL+"/unknown-tenant/page", loc.Query().Get(guard.ParamCallbackURL))
		assert.False(t, auth.called)
	})

	t.Run("registration pending redirects to registration with email", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{tok: &session.Token{
			Email:                "new@example.com",
			RegistrationRequired: true,
		}})
		req := httptest.NewRequest("GET", baseURL+"/egdc/dashboard", nil)

		loc := location(t, serve(g, req, nil))
		assert.Equal(t, "/register", loc.Path)
		assert.Equal(t, "new@example.com", loc.Query().Get(guard.ParamEmail))
	})

	t.Run("cross-tenant access is denied fail-closed", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{tok: boundToken("egdc", tenant.BusinessTypeRetailer)})
		req := httptest.NewRequest("GET", baseURL+"/fami/inventory", nil)

		next := &nextRecorder{}
		loc := location(t, serve(g, req, next.handler()))
		assert.False(t, next.called)
		assert.Equal(t, "/login", loc.Path)
		assert.Equal(t, guard.ErrorFlagForbidden, loc.Query().Get(guard.ParamError))
		assert.Equal(t, baseURL+"/fami/inventory", loc.Query().Get(guard.ParamCallbackURL))
	})

	t.Run("unbound session without registration flag passes through", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{tok: &session.Token{Email: "user@example.com"}})
		req := httptest.NewRequest("GET", baseURL+"/egdc/settings", nil)

		next := &nextRecorder{}
		rec := serve(g, req, next.handler())
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, next.called)
		assert.Equal(t, "egdc", rec.Header().Get(guard.HeaderTenantPath))
	})

	t.Run("zero tenant id falls back to unknown sentinel", func(t *testing.T) {
		t.Parallel()

		reg := fakeRegistry{"ghost": {Slug: "ghost", BusinessType: tenant.BusinessTypeRetailer, Active: true}}
		g, err := guard.New(reg, &fakeAuth{tok: boundToken("ghost", tenant.BusinessTypeRetailer)}, baseURL)
		require.NoError(t, err)
		req := httptest.NewRequest("GET", baseURL+"/ghost/page", nil)

		rec := serve(g, req, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, guard.UnknownTenantID, rec.Header().Get(guard.HeaderTenantID))
	})
}

func TestGuardCentralDomain(t *testing.T) {
	t.Parallel()

	t.Run("login portal redirects bound session to supplier dashboard", func(t *testing.T) {
		t.Parallel()

		// Scenario: central-domain /login with a session bound to osiel,
		// business type supplier.
		g := newGuard(t, &fakeAuth{tok: boundToken("osiel", tenant.BusinessTypeSupplier)})
		req := httptest.NewRequest("GET", baseURL+"/login", nil)

		loc := location(t, serve(g, req, nil))
		assert.Equal(t, "/osiel/s/dashboard", loc.Path)
	})

	t.Run("login portal renders form for anonymous users", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{})
		req := httptest.NewRequest("GET", baseURL+"/login", nil)

		next := &nextRecorder{}
		rec := serve(g, req, next.handler())
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, next.called)
	})

	t.Run("login portal sends pending registration to register", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{tok: &session.Token{
			Email:                "new@example.com",
			RegistrationRequired: true,
		}})
		req := httptest.NewRequest("GET", baseURL+"/login", nil)

		loc := location(t, serve(g, req, nil))
		assert.Equal(t, "/register", loc.Path)
		assert.Equal(t, "new@example.com", loc.Query().Get(guard.ParamEmail))
	})

	t.Run("login path on another host passes through", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{tok: boundToken("egdc", tenant.BusinessTypeRetailer)})
		req := httptest.NewRequest("GET", "https://other.example.com/login", nil)

		next := &nextRecorder{}
		rec := serve(g, req, next.handler())
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, next.called)
	})

	t.Run("generic dashboard resolves tenant from session", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{tok: boundToken("molly", tenant.BusinessTypeRetailer)})
		req := httptest.NewRequest("GET", baseURL+"/dashboard", nil)

		rec := serve(g, req, nil)
		loc := location(t, rec)
		assert.Equal(t, "/molly/r/dashboard", loc.Path)
		assert.Equal(t, "1", rec.Header().Get(guard.HeaderRedirectCount))
	})

	t.Run("generic dashboard without session redirects to login", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{})
		req := httptest.NewRequest("GET", baseURL+"/dashboard", nil)

		loc := location(t, serve(g, req, nil))
		assert.Equal(t, "/login", loc.Path)
		assert.Equal(t, baseURL+"/dashboard", loc.Query().Get(guard.ParamCallbackURL))
	})

	t.Run("generic dashboard consults registry when token lacks business type", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{tok: &session.Token{Email: "u@example.com", TenantSlug: "osiel"}})
		req := httptest.NewRequest("GET", baseURL+"/dashboard", nil)

		loc := location(t, serve(g, req, nil))
		assert.Equal(t, "/osiel/s/dashboard", loc.Path)
	})

	t.Run("unrecognized central path passes through", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{})
		req := httptest.NewRequest("GET", baseURL+"/", nil)

		next := &nextRecorder{}
		rec := serve(g, req, next.handler())
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, next.called)
	})

	t.Run("skip prefixes bypass the guard", func(t *testing.T) {
		t.Parallel()

		auth := &fakeAuth{}
		g := newGuard(t, auth)
		req := httptest.NewRequest("GET", baseURL+"/api/products", nil)

		next := &nextRecorder{}
		rec := serve(g, req, next.handler())
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, next.called)
		assert.False(t, auth.called)
	})
}

func TestGuardLoopBreaking(t *testing.T) {
	t.Parallel()

	t.Run("referer heuristic breaks dashboard loops early", func(t *testing.T) {
		t.Parallel()

		// Scenario: central /dashboard, session bound to molly, arriving
		// with referer /molly/r/dashboard and redirect count 2.
		g := newGuard(t, &fakeAuth{tok: boundToken("molly", tenant.BusinessTypeRetailer)})
		req := httptest.NewRequest("GET", baseURL+"/dashboard", nil)
		req.Header.Set("Referer", baseURL+"/molly/r/dashboard")
		req.Header.Set(guard.HeaderRedirectCount, "2")

		loc := location(t, serve(g, req, nil))
		assert.Equal(t, "/login", loc.Path)
		assert.Equal(t, guard.ErrorFlagDashboardLoop, loc.Query().Get(guard.ParamError))
	})

	t.Run("count of exactly three still proceeds", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{tok: boundToken("molly", tenant.BusinessTypeRetailer)})
		req := httptest.NewRequest("GET", baseURL+"/dashboard", nil)
		req.Header.Set(guard.HeaderRedirectCount, "3")

		rec := serve(g, req, nil)
		loc := location(t, rec)
		assert.Equal(t, "/molly/r/dashboard", loc.Path)
		assert.Equal(t, "4", rec.Header().Get(guard.HeaderRedirectCount))
	})

	t.Run("count of four breaks the chain", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{tok: boundToken("molly", tenant.BusinessTypeRetailer)})
		req := httptest.NewRequest("GET", baseURL+"/dashboard", nil)
		req.Header.Set(guard.HeaderRedirectCount, "4")

		loc := location(t, serve(g, req, nil))
		assert.Equal(t, "/login", loc.Path)
		assert.Equal(t, guard.ErrorFlagRedirectLoop, loc.Query().Get(guard.ParamError))
	})

	t.Run("chained redirects terminate instead of looping", func(t *testing.T) {
		t.Parallel()

		g := newGuard(t, &fakeAuth{tok: boundToken("molly", tenant.BusinessTypeRetailer)})

		count := 0
		redirects := 0
		for range 10 {
			req := httptest.NewRequest("GET", baseURL+"/dashboard", nil)
			if count > 0 {
				req.Header.Set(guard.HeaderRedirectCount, strconv.Itoa(count))
			}

			rec := serve(g, req, nil)
			loc := location(t, rec)
			if loc.Path == "/login" {
				assert.Equal(t, guard.ErrorFlagRedirectLoop, loc.Query().Get(guard.ParamError))
				break
			}

			redirects++
			count, _ = strconv.Atoi(rec.Header().Get(guard.HeaderRedirectCount))
		}

		assert.Equal(t, 4, redirects, "the chain must break before a fifth dashboard redirect")
	})
}
