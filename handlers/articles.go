// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alertrip/alertrip/auth"
	"github.com/alertrip/alertrip/cliparse"
	"github.com/alertrip/alertrip/db"
	"github.com/alertrip/alertrip/metrics"
	"github.com/alertrip/alertrip/middleware"
	"github.com/alertrip/alertrip/models"
)

const articleColumns = `id, title, description, hashtags, photo, created_at`

type ArticleHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewArticleHandler(db *sql.DB, cfg cliparse.Config) *ArticleHandler {
	return &ArticleHandler{db: db, cfg: cfg}
}

func scanArticle(s rowScanner) (models.Article, error) {
	var a models.Article
	err := s.Scan(&a.ID, &a.Title, &a.Description, &a.Hashtags, &a.Photo, &a.CreatedAt)
	return a, err
}

// List handles GET /news?search=&page=&size=
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r)

	articles, total, err := listPage(r.Context(), h.db,
		`SELECT COUNT(*) FROM article WHERE search_title LIKE $1 ESCAPE '\'`,
		`SELECT `+articleColumns+` FROM article
		WHERE search_title LIKE $1 ESCAPE '\'
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`,
		p, scanArticle)
	if err != nil {
		slog.Error("failed to list articles", "error", err, "search", p.Search, "page", p.Page)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	metrics.ListServed(models.KindArticles, p.Search)

	middleware.JSONResponse(w, http.StatusOK, models.ArticleListResponse{
		Articles: articles,
		Total:    total,
	})
}

// Get handles GET /news/{id}
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	article, err := scanArticle(h.db.QueryRowContext(r.Context(),
		`SELECT `+articleColumns+` FROM article WHERE id = $1`, id))
	if isNoRows(err) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Article not found")
		return
	}
	if err != nil {
		slog.Error("failed to query article", "error", err, "article_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, article)
}

// Create handles POST /news (admin only)
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateArticleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := cleanText(req.Title)
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	articleID, err := auth.GenerateID(8)
	if err != nil {
		slog.Error("failed to generate article ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add article")
		return
	}

	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO article (id, title, search_title, description, hashtags, photo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, articleID, title, db.SearchKey(title), richText.Sanitize(req.Description), normalizeHashtags(req.Hashtags), req.Photo, time.Now())
	if err != nil {
		slog.Error("failed to insert article", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add article")
		return
	}

	slog.Info("article added", "article_id", articleID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: articleID})
}

// Update handles PUT /news/{id} (admin only)
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.CreateArticleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := cleanText(req.Title)
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	res, err := h.db.ExecContext(r.Context(), `
		UPDATE article
		SET title = $1, search_title = $2, description = $3, hashtags = $4, photo = $5
		WHERE id = $6
	`, title, db.SearchKey(title), richText.Sanitize(req.Description), normalizeHashtags(req.Hashtags), req.Photo, id)
	if err != nil {
		slog.Error("failed to update article", "error", err, "article_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update article")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Article not found")
		return
	}

	article, err := scanArticle(h.db.QueryRowContext(r.Context(),
		`SELECT `+articleColumns+` FROM article WHERE id = $1`, id))
	if err != nil {
		slog.Error("failed to reload article", "error", err, "article_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("article updated", "article_id", id)

	middleware.JSONResponse(w, http.StatusOK, article)
}

// Delete handles DELETE /news/{id} (admin only)
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	res, err := h.db.ExecContext(r.Context(), `DELETE FROM article WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to delete article", "error", err, "article_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Article not found")
		return
	}

	slog.Info("article removed", "article_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// normalizeHashtags trims tags and drops empty ones: " a, ,b " -> "a,b"
func normalizeHashtags(s string) string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = cleanText(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return strings.Join(tags, ",")
}
