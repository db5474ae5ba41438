// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alertrip/alertrip/auth"
	"github.com/alertrip/alertrip/cliparse"
	"github.com/alertrip/alertrip/metrics"
	"github.com/alertrip/alertrip/middleware"
	"github.com/alertrip/alertrip/models"
)

// CandleHandler is the tribute aggregate service: the server of record for
// each person's candle count
type CandleHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCandleHandler(db *sql.DB, cfg cliparse.Config) *CandleHandler {
	return &CandleHandler{db: db, cfg: cfg}
}

// List handles GET /candles?search=&page=&size=
// People ordered by candle count, highest first
func (h *CandleHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r)

	people, total, err := listPage(r.Context(), h.db,
		`SELECT COUNT(*) FROM dead_person WHERE search_name LIKE $1 ESCAPE '\'`,
		`SELECT `+personColumns+` FROM dead_person
		WHERE search_name LIKE $1 ESCAPE '\'
		ORDER BY candles DESC, fullname, id
		LIMIT $2 OFFSET $3`,
		p, scanPerson)
	if err != nil {
		slog.Error("failed to list candles", "error", err, "search", p.Search, "page", p.Page)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	metrics.ListServed(models.KindCandles, p.Search)

	middleware.JSONResponse(w, http.StatusOK, models.PeopleListResponse{
		People: people,
		Total:  total,
	})
}

// Apply handles PUT /candles/{urlname}
// Applies a signed delta of exactly +1 or -1 and returns the new aggregate.
// The count is floored at zero in the same statement, so concurrent clients
// are serialized by the database.
func (h *CandleHandler) Apply(w http.ResponseWriter, r *http.Request) {
	urlname := r.PathValue("urlname")
	if urlname == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "urlname is required")
		return
	}

	var req models.CandleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Candle != 1 && req.Candle != -1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candle must be 1 or -1")
		return
	}

	var candles int
	err := h.db.QueryRowContext(r.Context(), `
		UPDATE dead_person
		SET candles = CASE WHEN candles + $1 < 0 THEN 0 ELSE candles + $1 END
		WHERE urlname = $2
		RETURNING candles
	`, req.Candle, urlname).Scan(&candles)

	if isNoRows(err) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Person not found")
		return
	}
	if err != nil {
		slog.Error("failed to apply candle", "error", err, "urlname", urlname)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update candles")
		return
	}

	privileged := middleware.IsAdmin(r, h.cfg.TokenSalt)
	metrics.CandleApplied(req.Candle, privileged)

	slog.Info("candle applied",
		"urlname", urlname,
		"delta", req.Candle,
		"candles", candles,
		"privileged", privileged,
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.TokenSalt),
	)

	middleware.JSONResponse(w, http.StatusOK, models.CandleResponse{
		URLName: urlname,
		Candles: candles,
	})
}
