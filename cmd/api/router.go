package main

import (
	"context"
	"net/http"
	"time"

	"libraryapi/internal/apidoc"
	"libraryapi/internal/auth"
	"libraryapi/internal/author"
	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/negotiate"
	"libraryapi/internal/platform/postgres"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/spec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const defaultAPIVersion = "1.0"

var supportedAPIVersions = []string{defaultAPIVersion}

// pool is what the router needs from the database: queries for the
// repositories and Ping for readiness.
type pool interface {
	postgres.DB
	Ping(ctx context.Context) error
}

type routerDeps struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       pool
	table    *negotiate.Table
	registry *prometheus.Registry
}

// buildTable registers every representation. A conflicting registration is a
// configuration error and must stop the process before it serves traffic.
func buildTable() (*negotiate.Table, error) {
	b := negotiate.NewBuilder()
	if err := author.RegisterRepresentations(b); err != nil {
		return nil, err
	}
	if err := book.RegisterRepresentations(b); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func newRouter(ctx context.Context, d routerDeps) (http.Handler, error) {
	metrics := httpx.NewMetrics(d.registry)
	negotiator := httpx.NewNegotiator(d.table, d.logger, metrics)
	limiter := httpx.NewRateLimitMiddleware(ctx, d.cfg.HTTP.RateLimitRPS, d.cfg.HTTP.RateLimitBurst, d.cfg.HTTP.TrustProxyHeaders, metrics)

	authorService := author.NewService(author.NewPostgresRepo(d.db, d.cfg.DB.Timeout))
	bookService := book.NewService(book.NewPostgresRepo(d.db, d.cfg.DB.Timeout), authorService)
	authService := auth.NewService(auth.Config{
		Username:     d.cfg.Auth.Username,
		PasswordHash: d.cfg.Auth.PasswordHash,
		JWTSecret:    d.cfg.Auth.JWTSecret,
		TokenTTL:     d.cfg.Auth.TokenTTL,
	})

	authorHandler := author.NewHTTPHandler(authorService, d.logger)
	bookHandler := book.NewHTTPHandler(bookService, d.logger)
	tokenHandler := auth.NewHTTPHandler(authService, d.cfg.Auth.Realm)

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware(d.logger))
	r.Use(httpx.RecoveryMiddleware(d.logger, metrics))
	r.Use(metrics.Middleware)
	r.Use(httpx.SecurityHeadersMiddleware(d.cfg.HTTP.EnableHSTS))
	r.Use(httpx.CORSMiddleware(d.cfg.HTTP.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.db.Ping(pingCtx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))

	if d.cfg.IsDevelopment() {
		docs, err := apidoc.NewHandler(map[string]*spec.Swagger{
			"v1": apidoc.NewLibraryDocument(d.table, defaultAPIVersion),
		})
		if err != nil {
			return nil, err
		}
		r.Method(http.MethodGet, "/swagger/{docName}/swagger.json", docs)
	}

	var routeErr error
	registerAPI := func(api chi.Router) {
		api.Use(limiter.Middleware)
		api.Use(httpx.RequestSizeLimitMiddleware(d.cfg.HTTP.MaxBodyBytes))
		api.Use(httpx.APIVersionMiddleware(supportedAPIVersions, defaultAPIVersion))

		api.With(httpx.AcceptMiddleware()).Post(apidoc.RouteToken, tokenHandler.IssueToken)

		api.Group(func(protected chi.Router) {
			protected.Use(httpx.AuthMiddleware(authService, d.cfg.Auth.Realm))
			if err := authorHandler.Routes(protected, negotiator); err != nil && routeErr == nil {
				routeErr = err
			}
			if err := bookHandler.Routes(protected, negotiator); err != nil && routeErr == nil {
				routeErr = err
			}
		})
	}
	r.Route("/api/v{version}", registerAPI)
	r.Route("/api", registerAPI)
	if routeErr != nil {
		return nil, routeErr
	}

	return r, nil
}
