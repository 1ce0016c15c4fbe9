package handlers

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"

	"github.com/emasmetal/website/internal/logger"
	"github.com/emasmetal/website/internal/ui/client"
	"github.com/emasmetal/website/internal/ui/templates"
)

// HandlerService holds the dependencies shared by the page handlers
type HandlerService struct {
	ApiClient      *client.Client
	Environment    string
	MaxUploadBytes int64
	validate       *validator.Validate
}

func NewHandlerService(apiClient *client.Client, environment string, maxUploadBytes int64) *HandlerService {
	return &HandlerService{
		ApiClient:      apiClient,
		Environment:    environment,
		MaxUploadBytes: maxUploadBytes,
		validate:       newContactValidator(),
	}
}

// render writes component with the given status code
func (h *HandlerService) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component, what string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		reqLogger := logger.ContextRequestLogger(r.Context())
		reqLogger.Error("Failed to render "+what, slog.String("error", err.Error()))
	}
}

// renderApiError renders a full error page for a failed API call.
// A 404 from the API is shown as a not found page, other failures keep the API status when it is an error status.
func (h *HandlerService) renderApiError(w http.ResponseWriter, r *http.Request, err error, title string) {
	apiErr := client.AsApiError(err)

	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Error("API call failed",
		slog.Int("api_status", apiErr.Status),
		slog.String("api_path", apiErr.Path),
		slog.String("error", apiErr.Message),
	)
	logger.ContextWithLogAttrs(r.Context(), slog.Int("api_status", apiErr.Status))

	if apiErr.Status == http.StatusNotFound {
		h.renderNotFound(w, r)
		return
	}

	status := apiErr.Status
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	h.render(w, r, status, templates.ErrorPage(h.Environment, title, apiErr.DisplayMessage()), "error page")
}

func (h *HandlerService) renderNotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound,
		templates.ErrorPage(h.Environment, "Not Found", "The page you are looking for does not exist."), "not found page")
}

// NotFound is the router fallback for unknown paths
func (h *HandlerService) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r)
}
