package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/emasmetal/website/internal/logger"
	"github.com/emasmetal/website/internal/ui/templates"
	"github.com/emasmetal/website/internal/ui/types"
)

func (h *HandlerService) HomePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, templates.HomePage(h.Environment), "home page")
}

// ReferencesPage lists the references, optionally filtered by the industry query parameter.
// Filtering is done by the API.
func (h *HandlerService) ReferencesPage(w http.ResponseWriter, r *http.Request) {
	industry := r.URL.Query().Get("industry")

	refs, err := h.ApiClient.ListReferences(r.Context(), industry)
	if err != nil {
		h.renderApiError(w, r, err, "References")
		return
	}

	h.render(w, r, http.StatusOK, templates.ReferencesPage(h.Environment, refs, industry, h.ApiClient.ImageURL), "references page")
}

// ReferenceDetailPage shows one reference. Ids that are not UUIDs are not sent to the API.
func (h *HandlerService) ReferenceDetailPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.renderNotFound(w, r)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.String("reference_id", id))

	ref, err := h.ApiClient.GetReference(r.Context(), id)
	if err != nil {
		h.renderApiError(w, r, err, "References")
		return
	}

	h.render(w, r, http.StatusOK, templates.ReferenceDetailPage(h.Environment, *ref, h.ApiClient.ImageURL), "reference page")
}

// GalleryPage lists gallery items, optionally filtered by the category query parameter.
// Unknown categories are rejected without calling the API.
func (h *HandlerService) GalleryPage(w http.ResponseWriter, r *http.Request) {
	var category types.GalleryCategory

	if raw := r.URL.Query().Get("category"); raw != "" {
		parsed, err := types.ParseGalleryCategory(raw)
		if err != nil {
			logger.ContextRequestLogger(r.Context()).Warn("invalid gallery category", slog.String("category", raw))
			h.render(w, r, http.StatusBadRequest,
				templates.ErrorPage(h.Environment, "Gallery", "Unknown gallery category."), "error page")
			return
		}
		category = parsed
	}

	items, err := h.ApiClient.ListGalleryItems(r.Context(), string(category))
	if err != nil {
		h.renderApiError(w, r, err, "Gallery")
		return
	}

	h.render(w, r, http.StatusOK, templates.GalleryPage(h.Environment, items, category, h.ApiClient.ImageURL), "gallery page")
}

func (h *HandlerService) GalleryItemPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.renderNotFound(w, r)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.String("gallery_item_id", id))

	item, err := h.ApiClient.GetGalleryItem(r.Context(), id)
	if err != nil {
		h.renderApiError(w, r, err, "Gallery")
		return
	}

	h.render(w, r, http.StatusOK, templates.GalleryItemPage(h.Environment, *item, h.ApiClient.ImageURL), "gallery item page")
}
