// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (request_id, method, path, remote) and completion
(status, duration_ms), and records the latency in the metrics package under
the matched route pattern. An incoming X-Request-ID is reused, otherwise a
UUID is generated and echoed back.

# Admin Routes

	mux.HandleFunc("POST /news", middleware.WithLogging(
		middleware.RequireAdmin(cfg.TokenSalt, articleHandler.Create)))

RequireAdmin answers 401 unless the request carries
"Authorization: Bearer <token>" with a valid admin token. IsAdmin performs
the same check without rejecting, for routes that only log the caller class.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Request-ID.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CandleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used for hashed client addresses in candle logs.
*/
package middleware
