package httpapi

import (
	"encoding/json"
	"net/http"

	"onnxd/pkg/types"
)

// HTTPError lets lower layers provide the HTTP status code that should
// accompany an error, without internal/httpapi needing to know about every
// package's error types.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes the {"error": {"code","message"}} envelope.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSONErrorDetail(w, status, msg, "")
}

// writeJSONErrorDetail is writeJSONError with an extra detail field, for
// errors that wrap a more specific underlying cause (e.g. a load failure).
func writeJSONErrorDetail(w http.ResponseWriter, status int, msg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: types.ErrorBody{Code: status, Message: msg, Detail: detail}})
}
