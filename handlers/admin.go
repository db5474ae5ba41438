// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alertrip/alertrip/auth"
	"github.com/alertrip/alertrip/cliparse"
	"github.com/alertrip/alertrip/middleware"
	"github.com/alertrip/alertrip/models"
)

type AdminHandler struct {
	cfg cliparse.Config
}

func NewAdminHandler(cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{cfg: cfg}
}

// Login handles POST /admin/login
// Exchanges the admin password for a signed session token
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password is required")
		return
	}

	if err := auth.CheckPassword(h.cfg.AdminPasswordHash, req.Password); err != nil {
		slog.Warn("admin login rejected", "ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.TokenSalt))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := auth.IssueAdminToken(h.cfg.TokenSalt)
	if err != nil {
		slog.Error("failed to issue admin token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("admin logged in")

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{Token: token})
}
