// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/config"
	"github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000/internal/middleware"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	cfg      *config.Config
	handlers *Handlers
}

// NewRouter creates a router around the handler set.
func NewRouter(cfg *config.Config, handlers *Handlers) *Router {
	return &Router{cfg: cfg, handlers: handlers}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler for r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup builds the full route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Envelope-shaped 404/405 instead of chi's plain-text defaults
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).Error(http.StatusMethodNotAllowed, ErrCodeValidation, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		if !router.cfg.Security.RateLimitDisabled {
			r.Use(httprate.Limit(
				router.cfg.Security.RateLimitReqs,
				router.cfg.Security.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
					NewResponseWriter(w, req).Error(http.StatusTooManyRequests, ErrCodeRateLimited, "rate limit exceeded")
				}),
			))
		}
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/health", router.handlers.Health)
		r.Get("/health/live", router.handlers.Live)
		r.Get("/health/ready", router.handlers.Ready)

		r.Get("/books", router.handlers.Books)
		r.Get("/books/popular", router.handlers.PopularBooks)
		r.Get("/reviews/popular", router.handlers.PopularReviews)
		r.Get("/users/power", router.handlers.PowerUsers)

		r.Post("/batch/rankings", router.handlers.TriggerBatch)
	})

	// Prometheus scrape endpoint stays outside the rate-limited API tree
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

// NewServer builds the HTTP server around the assembled route tree.
func (router *Router) NewServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", router.cfg.Server.Host, router.cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       router.cfg.Server.Timeout,
		WriteTimeout:      router.cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}
}
