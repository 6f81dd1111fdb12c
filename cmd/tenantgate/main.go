package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lospapatos/tenantgate/pkg/config"
	"github.com/lospapatos/tenantgate/pkg/environment"
	"github.com/lospapatos/tenantgate/pkg/guard"
	"github.com/lospapatos/tenantgate/pkg/httpserver"
	"github.com/lospapatos/tenantgate/pkg/jwt"
	"github.com/lospapatos/tenantgate/pkg/logger"
	"github.com/lospapatos/tenantgate/pkg/pg"
	"github.com/lospapatos/tenantgate/pkg/redis"
	"github.com/lospapatos/tenantgate/pkg/secheaders"
	"github.com/lospapatos/tenantgate/pkg/session"
	"github.com/lospapatos/tenantgate/pkg/tenant"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type appConfig struct {
	Env           string        `env:"APP_ENV" envDefault:"development"`
	BaseURL       string        `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	UpstreamURL   string        `env:"UPSTREAM_URL"` // optional app backend to proxy granted requests to
	SessionSecret string        `env:"SESSION_SECRET,required"`
	TenantsFile   string        `env:"TENANTS_FILE" envDefault:"tenants.yaml"`
	CacheTTL      time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	LookupTimeout time.Duration `env:"TENANT_LOOKUP_TIMEOUT" envDefault:"2s"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	env := environment.Parse(cfg.Env)

	log := logger.New(
		logger.WithEnvironment(env, "tenantgate"),
		logger.WithContextExtractors(tenant.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return err
	}
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	if err := pg.Migrate(ctx, pool, migrations, pgCfg, log); err != nil {
		return err
	}

	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return err
	}
	rdb, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	static, err := tenant.LoadStaticFile(cfg.TenantsFile)
	if err != nil {
		// The static allow-list is an optimization; the dynamic registry
		// still serves every tenant, so start degraded instead of failing.
		log.WarnContext(ctx, "static tenant allow-list unavailable", logger.Error(err))
		static = map[string]tenant.Tenant{}
	}

	registry := tenant.NewRegistry(static,
		tenant.WithProvider(tenant.NewPGProvider(pool)),
		tenant.WithCache(tenant.NewRedisCache(rdb)),
		tenant.WithCacheTTL(cfg.CacheTTL),
		tenant.WithLookupTimeout(cfg.LookupTimeout),
		tenant.WithLogger(log),
	)

	jwtSvc, err := jwt.NewFromString(cfg.SessionSecret)
	if err != nil {
		return err
	}
	auth, err := session.NewAuthenticator(jwtSvc, env, session.WithLogger(log))
	if err != nil {
		return err
	}

	g, err := guard.New(registry, auth, cfg.BaseURL, guard.WithLogger(log))
	if err != nil {
		return err
	}

	downstream, err := downstreamHandler(cfg.UpstreamURL)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(secheaders.Middleware())
	r.Use(g.Middleware())
	r.Get("/health", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log,
		pg.Healthcheck(pool),
		redis.Healthcheck(rdb),
	))
	r.Handle("/*", downstream)

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// downstreamHandler is what granted requests reach: a reverse proxy to the
// application backend when one is configured, otherwise a placeholder that
// confirms the request passed the guard.
func downstreamHandler(upstream string) (http.Handler, error) {
	if upstream == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		}), nil
	}

	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	return httputil.NewSingleHostReverseProxy(target), nil
}
