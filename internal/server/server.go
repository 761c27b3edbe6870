// Package server wires the HTTP routes and middleware chain.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router needs. All of them are required.
type Deps struct {
	Books  *book.HTTPHandler
	DB     Pinger
	Logger *slog.Logger
	HTTP   config.HTTPConfig
}

const readyTimeout = 500 * time.Millisecond

// NewHandler builds the root handler. ctx bounds background work such as the
// rate limiter janitor.
func NewHandler(ctx context.Context, d Deps) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := d.DB.Ping(pingCtx); err != nil {
			d.Logger.Warn("readiness check failed", "error", err)
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /books", d.Books.List)
	router.HandleFunc("POST /books", d.Books.Create)
	router.HandleFunc("GET /books/{isbn}", d.Books.Get)
	router.HandleFunc("PUT /books/{isbn}", d.Books.Update)
	router.HandleFunc("DELETE /books/{isbn}", d.Books.Delete)

	limiter := httpx.NewRateLimitMiddleware(ctx, d.HTTP.RateLimitRPS, d.HTTP.RateLimitBurst)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.Logger),
		httpx.RecoveryMiddleware(d.Logger),
		httpx.SecurityHeadersMiddleware(d.HTTP.EnableHSTS),
		httpx.CORSMiddleware(d.HTTP.AllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(d.HTTP.MaxBodyBytes),
	)
}
