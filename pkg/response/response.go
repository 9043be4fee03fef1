// Package response writes the JSON bodies every storefront endpoint shares.
//
// Successful mutations answer {"success":true, ...fields}; failures answer
// {"success":false,"error":"<message>"}. Read endpoints write the resource
// itself with JSON.
package response

import (
	"encoding/json"
	"net/http"
)

// Fields are merged next to "success" in a Success body.
type Fields map[string]any

type errorBody struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 {"success":true, ...fields}.
func Success(w http.ResponseWriter, fields Fields) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	JSON(w, http.StatusOK, body)
}

// Error sends {"success":false,"error":message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// ValidationError sends a 400 with a summary message and field-level errors.
func ValidationError(w http.ResponseWriter, message string, errs map[string]string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: message, Errors: errs})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}
