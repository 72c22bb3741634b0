package serializer

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

// RespondJSON writes a JSON response with the given status code and data.
// It encodes before writing headers so a failed encoding never leaves a
// partial response.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(append(b, '\n')); err != nil {
		// connection is gone
		slog.Warn("response write failed", "error", err)
	}
}
