package project

import (
	"log/slog"
	"net/http"

	"github.com/patsapolpro/web-starter-kit-ai/internal/apperror"
	"github.com/patsapolpro/web-starter-kit-ai/internal/httputil"
	"github.com/patsapolpro/web-starter-kit-ai/internal/validation"

	"github.com/go-chi/chi/v5"
)

const (
	msgFetchFailed  = "Unable to fetch project. Please try again."
	msgCreateFailed = "Unable to create project. Please try again."
	msgUpdateFailed = "Unable to update project. Please try again."
	msgDeleteFailed = "Unable to delete project. Please try again."

	msgNameNotString = "Project name must be a string"
)

type nameRequest struct {
	Name *string `json:"name"`
}

var nameTypeMessages = httputil.FieldTypeMessages{
	"name": msgNameNotString,
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
	r.Get("/api/project", h.GetProject)
	r.Post("/api/project", h.CreateProject)
	r.Put("/api/project", h.UpdateProject)
	r.Delete("/api/project", h.DeleteProject)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.GetCurrentProject(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, msgFetchFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusOK, project)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if appErr := httputil.DecodeJSON(w, r, &req, nameTypeMessages); appErr != nil {
		httputil.RespondWithError(w, appErr)
		return
	}
	if req.Name == nil {
		httputil.RespondWithError(w, apperror.Validation(validation.MsgProjectNameRequired))
		return
	}

	h.logger.InfoContext(r.Context(), "creating project", "name", *req.Name)
	project, err := h.service.CreateProject(r.Context(), *req.Name)
	if err != nil {
		h.handleServiceError(w, r, err, msgCreateFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusCreated, project)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if appErr := httputil.DecodeJSON(w, r, &req, nameTypeMessages); appErr != nil {
		httputil.RespondWithError(w, appErr)
		return
	}
	if req.Name == nil {
		httputil.RespondWithError(w, apperror.Validation(validation.MsgProjectNameRequired))
		return
	}

	h.logger.InfoContext(r.Context(), "renaming project", "name", *req.Name)
	project, err := h.service.RenameCurrentProject(r.Context(), *req.Name)
	if err != nil {
		h.handleServiceError(w, r, err, msgUpdateFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusOK, project)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "deleting project")
	id, err := h.service.DeleteCurrentProject(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, msgDeleteFailed)
		return
	}

	httputil.RespondWithData(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	httputil.RespondWithServiceError(w, r, h.logger, err, fallback)
}
