package httpext

import (
	"encoding/json"
	"net/http"

	"github.com/clowes/twin/internal/logger"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// JsonError writes a JSON error response with the specified status code
func JsonError(w http.ResponseWriter, message string, code int) {
	JsonErrorWithDetail(w, code, message, "")
}

// JsonErrorWithDetail adds a human readable explanation to the error.
func JsonErrorWithDetail(w http.ResponseWriter, code int, message, detail string) {
	if err := writeJSON(w, code, ErrorResponse{Error: message, Detail: detail}); err != nil {
		logger.Error(logger.HANDLER, "Failed to encode error response: %v", err)
		// Fallback to writing JSON body as plain text if JSON encoding fails
		http.Error(w, "{\"error\":\"Internal Server Error\"}", http.StatusInternalServerError)
	}
}

// JsonResponse writes v as the JSON body of a response.
func JsonResponse(w http.ResponseWriter, code int, v interface{}) {
	if err := writeJSON(w, code, v); err != nil {
		// headers are already sent
		logger.Error(logger.HANDLER, "Failed to encode response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}
