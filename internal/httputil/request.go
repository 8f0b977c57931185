package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/patsapolpro/web-starter-kit-ai/internal/apperror"
)

const maxBodyBytes = 1 << 20

const MsgInvalidBody = "Invalid request body"

// FieldTypeMessages maps a JSON field name to the message reported when the
// client sends a value of the wrong JSON type for it.
type FieldTypeMessages map[string]string

// DecodeJSON decodes the request body into dst. A missing or empty body
// leaves dst untouched. Malformed JSON and type mismatches come back as
// validation errors; messages registers per-field wording for the latter.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, messages FieldTypeMessages) *apperror.Error {
	if r.Body == nil {
		return nil
	}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if msg, ok := messages[typeErr.Field]; ok {
			return apperror.Validation(msg)
		}
	}
	return apperror.Validation(MsgInvalidBody)
}
