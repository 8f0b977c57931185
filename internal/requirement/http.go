package requirement

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/patsapolpro/web-starter-kit-ai/internal/apperror"
	"github.com/patsapolpro/web-starter-kit-ai/internal/httputil"
	"github.com/patsapolpro/web-starter-kit-ai/internal/metrics"
	"github.com/patsapolpro/web-starter-kit-ai/internal/validation"

	"github.com/go-chi/chi/v5"
)

const (
	msgListFailed   = "Unable to load requirements. Please try again."
	msgCreateFailed = "Unable to add requirement. Please try again."
	msgGetFailed    = "Unable to load requirement. Please try again."
	msgSaveFailed   = "Unable to save changes. Please try again."
	msgDeleteFailed = "Unable to delete requirement. Please try again."

	msgInvalidID = "Invalid requirement ID"
)

var fieldTypeMessages = httputil.FieldTypeMessages{
	"description": "Description must be a string",
	"effort":      validation.MsgEffortNotNumber,
	"isActive":    "isActive must be a boolean",
}

type createRequest struct {
	Description *string  `json:"description"`
	Effort      *float64 `json:"effort"`
}

type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.APIMetrics
}

func NewHandler(service Service, logger *slog.Logger, apiMetrics *metrics.APIMetrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: apiMetrics,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/requirements", func(r chi.Router) {
		r.Get("/", h.ListRequirements)
		r.Post("/", h.CreateRequirement)
		r.Get("/summary", h.GetSummary)
		r.Get("/{id}", h.GetRequirement)
		r.Put("/{id}", h.UpdateRequirement)
		r.Delete("/{id}", h.DeleteRequirement)
		r.Post("/{id}/toggle", h.ToggleRequirement)
	})
}

func (h *Handler) ListRequirements(w http.ResponseWriter, r *http.Request) {
	requirements, err := h.service.ListRequirements(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, msgListFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusOK, requirements)
}

func (h *Handler) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if appErr := httputil.DecodeJSON(w, r, &req, fieldTypeMessages); appErr != nil {
		httputil.RespondWithError(w, appErr)
		return
	}
	if req.Description == nil {
		httputil.RespondWithError(w, apperror.Validation(validation.MsgDescriptionRequired))
		return
	}
	if req.Effort == nil {
		httputil.RespondWithError(w, apperror.Validation(validation.MsgEffortRequired))
		return
	}

	h.logger.InfoContext(r.Context(), "creating requirement", "effort", *req.Effort)
	requirement, err := h.service.CreateRequirement(r.Context(), *req.Description, *req.Effort)
	if err != nil {
		h.handleServiceError(w, r, err, msgCreateFailed)
		return
	}

	h.metrics.RecordRequirementCreated(r.Context())

	httputil.RespondWithData(w, http.StatusCreated, requirement)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, msgListFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusOK, summary)
}

func (h *Handler) GetRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	requirement, err := h.service.GetRequirement(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err, msgGetFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusOK, requirement)
}

func (h *Handler) UpdateRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var patch Patch
	if appErr := httputil.DecodeJSON(w, r, &patch, fieldTypeMessages); appErr != nil {
		httputil.RespondWithError(w, appErr)
		return
	}

	h.logger.InfoContext(r.Context(), "updating requirement", "id", id)
	requirement, err := h.service.UpdateRequirement(r.Context(), id, patch)
	if err != nil {
		h.handleServiceError(w, r, err, msgSaveFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusOK, requirement)
}

func (h *Handler) ToggleRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "toggling requirement", "id", id)
	requirement, err := h.service.ToggleRequirement(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err, msgSaveFailed)
		return
	}

	h.metrics.RecordRequirementToggled(r.Context(), requirement.IsActive)

	httputil.RespondWithData(w, http.StatusOK, requirement)
}

func (h *Handler) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "deleting requirement", "id", id)
	if err := h.service.DeleteRequirement(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err, msgDeleteFailed)
		return
	}

	h.metrics.RecordRequirementDeleted(r.Context())

	httputil.RespondWithData(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, apperror.Validation(msgInvalidID))
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	httputil.RespondWithServiceError(w, r, h.logger, err, fallback)
}
