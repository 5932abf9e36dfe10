package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/senyabanana/partner-service/internal/models"

	"go.uber.org/zap"
)

// SendJSON отправляет ответ в формате JSON с указанным статусом
func SendJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	SendJSON(w, statusCode, models.NewErrorResponse(statusCode, message))
}

// ParseIds разбирает повторяющийся параметр id в список идентификаторов
func ParseIds(values []string) ([]int64, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id parameter %q, must be a positive integer", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
