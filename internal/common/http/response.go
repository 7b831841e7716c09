package http

import (
	"encoding/json"
	"net/http"

	commonerrors "github.com/vmorozov/customer-hub/internal/common/errors"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Data    any                       `json:"data,omitempty"`
	Errors  []commonerrors.FieldError `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func WriteFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{
		Success: false,
		Message: message,
	})
}

func WriteFieldErrors(w http.ResponseWriter, status int, message string, fields []commonerrors.FieldError) {
	WriteJSON(w, status, Envelope{
		Success: false,
		Message: message,
		Errors:  fields,
	})
}

func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
