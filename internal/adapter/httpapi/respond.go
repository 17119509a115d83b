package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

// writeError maps a classified error to its status code with a
// {"detail": ...} body. Unclassified errors become opaque 500s.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, detail("Internal server error"))
		return
	}

	status := statusForKind(derr.Kind)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	if status >= 500 {
		logger.Error("request failed", "kind", derr.Kind, "error", err)
	}
	writeJSON(w, status, detail(derr.Message))
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalid:
		return http.StatusBadRequest
	case domain.KindUpstream:
		return http.StatusBadGateway
	case domain.KindConfig:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func detail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}
