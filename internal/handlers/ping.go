package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// PingHandler обрабатывает GET запрос к /ping
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, "ok"); err != nil {
		LoggerFromContext(r.Context(), zap.L()).Warn("failed to write ping response", zap.Error(err))
	}
}
