// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/alertrip/alertrip/auth"
	"github.com/alertrip/alertrip/cliparse"
	"github.com/alertrip/alertrip/db"
	"github.com/alertrip/alertrip/metrics"
	"github.com/alertrip/alertrip/middleware"
	"github.com/alertrip/alertrip/models"
)

const personColumns = `id, urlname, fullname, age, birthday, birthplace, dead_day, dead_place,
	career, death, reason, net_worth, photo, facebook, twitter, instagram, youtube,
	candles, created_at`

type PeopleHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPeopleHandler(db *sql.DB, cfg cliparse.Config) *PeopleHandler {
	return &PeopleHandler{db: db, cfg: cfg}
}

func scanPerson(s rowScanner) (models.Person, error) {
	var p models.Person
	err := s.Scan(
		&p.ID, &p.URLName, &p.Fullname, &p.Age, &p.Birthday, &p.Birthplace,
		&p.DeadDay, &p.DeadPlace, &p.Career, &p.Death, &p.Reason, &p.NetWorth,
		&p.Photo, &p.Facebook, &p.Twitter, &p.Instagram, &p.Youtube,
		&p.Candles, &p.CreatedAt,
	)
	return p, err
}

// List handles GET /deadpeople?search=&page=&size=
// Newest entries first
func (h *PeopleHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r)

	people, total, err := listPage(r.Context(), h.db,
		`SELECT COUNT(*) FROM dead_person WHERE search_name LIKE $1 ESCAPE '\'`,
		`SELECT `+personColumns+` FROM dead_person
		WHERE search_name LIKE $1 ESCAPE '\'
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`,
		p, scanPerson)
	if err != nil {
		slog.Error("failed to list people", "error", err, "search", p.Search, "page", p.Page)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	metrics.ListServed(models.KindPeople, p.Search)

	middleware.JSONResponse(w, http.StatusOK, models.PeopleListResponse{
		People: people,
		Total:  total,
	})
}

// Get handles GET /deadpeople/{urlname}
func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	urlname := r.PathValue("urlname")
	if urlname == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "urlname is required")
		return
	}

	person, err := scanPerson(h.db.QueryRowContext(r.Context(),
		`SELECT `+personColumns+` FROM dead_person WHERE urlname = $1`, urlname))
	if isNoRows(err) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Person not found")
		return
	}
	if err != nil {
		slog.Error("failed to query person", "error", err, "urlname", urlname)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, person)
}

// Create handles POST /deadpeople (admin only)
func (h *PeopleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePersonRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := cleanPerson(&req); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	// Explicit urlname wins, otherwise derive it from the name
	urlname := slugify(req.URLName)
	if urlname == "" {
		urlname = slugify(req.Fullname)
	}
	if urlname == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "urlname must contain letters or digits")
		return
	}

	personID, err := auth.GenerateID(8)
	if err != nil {
		slog.Error("failed to generate person ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add person")
		return
	}

	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO dead_person (id, urlname, fullname, search_name, age, birthday, birthplace, dead_day, dead_place,
			career, death, reason, net_worth, photo, facebook, twitter, instagram, youtube, candles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, 0, $19)
	`, personID, urlname, req.Fullname, db.SearchKey(req.Fullname), req.Age, req.Birthday,
		req.Birthplace, req.DeadDay, req.DeadPlace, req.Career, req.Death, req.Reason, req.NetWorth,
		req.Photo, req.Facebook, req.Twitter, req.Instagram, req.Youtube, time.Now())

	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "urlname already taken")
		return
	}
	if err != nil {
		slog.Error("failed to insert person", "error", err, "urlname", urlname)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add person")
		return
	}

	slog.Info("person added", "person_id", personID, "urlname", urlname)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{
		ID:      personID,
		URLName: urlname,
	})
}

// Update handles PUT /deadpeople/{urlname} (admin only)
// Replaces every editable field. The urlname and the candle count are kept.
func (h *PeopleHandler) Update(w http.ResponseWriter, r *http.Request) {
	urlname := r.PathValue("urlname")

	var req models.CreatePersonRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if msg := cleanPerson(&req); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	res, err := h.db.ExecContext(r.Context(), `
		UPDATE dead_person
		SET fullname = $1, search_name = $2, age = $3, birthday = $4, birthplace = $5,
			dead_day = $6, dead_place = $7, career = $8, death = $9, reason = $10,
			net_worth = $11, photo = $12, facebook = $13, twitter = $14, instagram = $15, youtube = $16
		WHERE urlname = $17
	`, req.Fullname, db.SearchKey(req.Fullname), req.Age, req.Birthday, req.Birthplace,
		req.DeadDay, req.DeadPlace, req.Career, req.Death, req.Reason,
		req.NetWorth, req.Photo, req.Facebook, req.Twitter, req.Instagram, req.Youtube,
		urlname)
	if err != nil {
		slog.Error("failed to update person", "error", err, "urlname", urlname)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update person")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Person not found")
		return
	}

	person, err := scanPerson(h.db.QueryRowContext(r.Context(),
		`SELECT `+personColumns+` FROM dead_person WHERE urlname = $1`, urlname))
	if err != nil {
		slog.Error("failed to reload person", "error", err, "urlname", urlname)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("person updated", "person_id", person.ID, "urlname", urlname)

	middleware.JSONResponse(w, http.StatusOK, person)
}

// Delete handles DELETE /deadpeople/{urlname} (admin only)
func (h *PeopleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	urlname := r.PathValue("urlname")

	res, err := h.db.ExecContext(r.Context(), `DELETE FROM dead_person WHERE urlname = $1`, urlname)
	if err != nil {
		slog.Error("failed to delete person", "error", err, "urlname", urlname)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Person not found")
		return
	}

	slog.Info("person removed", "urlname", urlname)
	w.WriteHeader(http.StatusNoContent)
}
