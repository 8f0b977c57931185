package preference

import (
	"log/slog"
	"net/http"

	"github.com/patsapolpro/web-starter-kit-ai/internal/apperror"
	"github.com/patsapolpro/web-starter-kit-ai/internal/httputil"
	"github.com/patsapolpro/web-starter-kit-ai/internal/validation"

	"github.com/go-chi/chi/v5"
)

const (
	msgLoadFailed = "Unable to load preferences. Please try again."
	msgSaveFailed = "Unable to save preferences. Please try again."
)

var fieldTypeMessages = httputil.FieldTypeMessages{
	"effortColumnVisible":       "effortColumnVisible must be a boolean",
	"showTotalWhenEffortHidden": "showTotalWhenEffortHidden must be a boolean",
	"language":                  validation.MsgLanguageInvalid,
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/preferences", h.GetPreferences)
	r.Put("/api/preferences", h.UpdatePreferences)
	r.Post("/api/preferences/reset", h.ResetPreferences)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.service.GetPreferences(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, msgLoadFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusOK, prefs)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if appErr := httputil.DecodeJSON(w, r, &patch, fieldTypeMessages); appErr != nil {
		httputil.RespondWithError(w, appErr)
		return
	}
	if patch.Language != nil {
		if res := validation.Language(*patch.Language); !res.Valid {
			httputil.RespondWithError(w, apperror.Validation(res.Error))
			return
		}
	}

	h.logger.InfoContext(r.Context(), "updating preferences")
	prefs, err := h.service.UpdatePreferences(r.Context(), patch)
	if err != nil {
		h.handleServiceError(w, r, err, msgSaveFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusOK, prefs)
}

func (h *Handler) ResetPreferences(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "resetting preferences")
	prefs, err := h.service.ResetPreferences(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, msgSaveFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusOK, prefs)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	httputil.RespondWithServiceError(w, r, h.logger, err, fallback)
}
