package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/patsapolpro/web-starter-kit-ai/internal/apperror"
)

// Envelope is the wrapper every endpoint responds with.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
	Details any           `json:"details,omitempty"`
}

// RespondWithData writes a success envelope around data.
func RespondWithData(w http.ResponseWriter, code int, data any) {
	RespondWithJSON(w, code, Envelope{Success: true, Data: data})
}

// RespondWithError writes the error envelope for err using its fixed status.
func RespondWithError(w http.ResponseWriter, err *apperror.Error) {
	RespondWithJSON(w, err.Code.HTTPStatus(), Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    err.Code,
			Message: err.Message,
			Details: err.Details,
		},
	})
}

// RespondWithServiceError classifies err and writes its envelope. Anything
// that is not a typed error is reported as a storage failure with fallback
// as the client message; the cause only goes to the log.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	appErr := apperror.From(err, fallback)

	switch appErr.Code {
	case apperror.CodeValidation, apperror.CodeNotFound:
		logger.InfoContext(r.Context(), "request rejected",
			"code", appErr.Code,
			"message", appErr.Message,
			"path", r.URL.Path,
		)
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"code", appErr.Code,
			"path", r.URL.Path,
			"error", err,
		)
	}

	RespondWithError(w, appErr)
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"Unable to encode response"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
