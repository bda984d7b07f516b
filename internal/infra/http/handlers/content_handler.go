package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nickppf/nickppf-api/internal/usecase"
)

// ContentHandler expõe as coleções do CMS usadas pelas páginas do site.
type ContentHandler struct {
	Content *usecase.ContentService
	// FileURL monta a URL pública de um arquivo do Directus.
	FileURL func(id string) string
	Logger  *zap.Logger
}

func NewContentHandler(content *usecase.ContentService, fileURL func(string) string, logger *zap.Logger) *ContentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentHandler{Content: content, FileURL: fileURL, Logger: logger}
}

func (h *ContentHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Content.Categories(r.Context()))
}

func (h *ContentHandler) Subcategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Content.Subcategories(r.Context()))
}

func (h *ContentHandler) Products(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Content.Products(r.Context()))
}

func (h *ContentHandler) Catalogue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Content.Catalogue(r.Context()))
}

func (h *ContentHandler) Articles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Content.Articles(r.Context()))
}

func (h *ContentHandler) FeaturedArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.Content.FeaturedArticle(r.Context())
	if err != nil {
		h.writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// ArticleBySlug (GET /api/articles/{slug})
func (h *ContentHandler) ArticleBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required")
		return
	}

	article, err := h.Content.ArticleBySlug(r.Context(), slug)
	if err != nil {
		h.writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (h *ContentHandler) About(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Content.About(r.Context()))
}

func (h *ContentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Content.Stats(r.Context()))
}

// Asset (GET /assets/{id}) redireciona para o arquivo no Directus.
func (h *ContentHandler) Asset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	http.Redirect(w, r, h.FileURL(id), http.StatusFound)
}

func (h *ContentHandler) writeContentError(w http.ResponseWriter, err error) {
	if errors.Is(err, usecase.ErrContentNotFound) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	h.Logger.Error("❌ erro ao carregar conteúdo", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Failed to load content")
}
