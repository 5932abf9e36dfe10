package router

import (
	"net/http"
	"strings"

	"github.com/senyabanana/partner-service/internal/handlers"

	"go.uber.org/zap"
)

// InitRoutes регистрирует маршруты сервиса и оборачивает их в логирование запросов.
func InitRoutes(partnerHandler *handlers.PartnerHandler, uploadDir string, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", handlers.PingHandler)

	mux.HandleFunc("POST /partners", partnerHandler.CreatePartner)
	mux.HandleFunc("POST /partners/{$}", partnerHandler.CreatePartner)
	mux.HandleFunc("GET /partners", partnerHandler.ListPartners)
	mux.HandleFunc("GET /partners/{$}", partnerHandler.ListPartners)
	mux.HandleFunc("GET /partners/{id}", partnerHandler.GetPartner)
	mux.HandleFunc("PATCH /partners/{id}", partnerHandler.UpdatePartner)
	mux.HandleFunc("PUT /partners/{id}/rollback/{version}", partnerHandler.RollbackPartner)

	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", noListing(http.FileServer(http.Dir(uploadDir)))))

	return handlers.WithRequestLogging(logger, mux)
}

// noListing запрещает просмотр содержимого каталога загрузок.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
