// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP handler tree.
func NewRouter(h *Handler, limit RateLimitConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(PrometheusMetrics)

		// Health is not rate limited.
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(limit))
			r.Get("/items", h.Items)
			r.Get("/items/{itemID}/recommendations", h.Recommendations)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
