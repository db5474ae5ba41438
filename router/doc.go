// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the alert.rip API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Operational:

	GET /health  - Liveness
	GET /metrics - Prometheus exposition

Admin session:

	POST /admin/login - Exchange password for a token

People (writes require a Bearer token):

	GET    /deadpeople           - Paginated search
	GET    /deadpeople/{urlname} - Single person
	POST   /deadpeople           - Add person
	PUT    /deadpeople/{urlname} - Edit person
	DELETE /deadpeople/{urlname} - Remove person

Candles (public):

	GET /candles           - People by candle count
	PUT /candles/{urlname} - Apply a +1/-1 delta

News (writes require a Bearer token):

	GET    /news      - Paginated search
	GET    /news/{id} - Single article
	POST   /news      - Add article
	PUT    /news/{id} - Edit article
	DELETE /news/{id} - Remove article

Every route except /health and /metrics is wrapped in middleware.WithLogging.
*/
package router
