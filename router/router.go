// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/alertrip/alertrip/cliparse"
	"github.com/alertrip/alertrip/handlers"
	"github.com/alertrip/alertrip/metrics"
	"github.com/alertrip/alertrip/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(cfg)
	peopleHandler := handlers.NewPeopleHandler(db, cfg)
	candleHandler := handlers.NewCandleHandler(db, cfg)
	articleHandler := handlers.NewArticleHandler(db, cfg)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg.TokenSalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Session issuance for privileged actors
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))

	// People
	mux.HandleFunc("GET /deadpeople", middleware.WithLogging(peopleHandler.List))
	mux.HandleFunc("GET /deadpeople/{urlname}", middleware.WithLogging(peopleHandler.Get))
	mux.HandleFunc("POST /deadpeople", admin(peopleHandler.Create))
	mux.HandleFunc("PUT /deadpeople/{urlname}", admin(peopleHandler.Update))
	mux.HandleFunc("DELETE /deadpeople/{urlname}", admin(peopleHandler.Delete))

	// Tribute aggregate (public)
	mux.HandleFunc("GET /candles", middleware.WithLogging(candleHandler.List))
	mux.HandleFunc("PUT /candles/{urlname}", middleware.WithLogging(candleHandler.Apply))

	// News
	mux.HandleFunc("GET /news", middleware.WithLogging(articleHandler.List))
	mux.HandleFunc("GET /news/{id}", middleware.WithLogging(articleHandler.Get))
	mux.HandleFunc("POST /news", admin(articleHandler.Create))
	mux.HandleFunc("PUT /news/{id}", admin(articleHandler.Update))
	mux.HandleFunc("DELETE /news/{id}", admin(articleHandler.Delete))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("alert.rip API v1"))
	})

	return mux
}
