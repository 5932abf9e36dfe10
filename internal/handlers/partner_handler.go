package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/senyabanana/partner-service/internal/models"
	"github.com/senyabanana/partner-service/internal/upload"
	"github.com/senyabanana/partner-service/internal/utils"

	"go.uber.org/zap"
)

// PartnerController - бизнес-логика партнёров, которой делегируют HTTP-обработчики.
type PartnerController interface {
	CreatePartner(ctx context.Context, req models.PartnerRequest) (*models.Partner, error)
	ListPartners(ctx context.Context, ids []int64) ([]models.Partner, error)
	GetPartnerWithOffers(ctx context.Context, id string) (*models.PartnerWithOffers, error)
	UpdatePartner(ctx context.Context, id string, update models.PartnerUpdate, files []models.UploadedFile) (*models.Partner, error)
	RollbackPartner(ctx context.Context, id, version string) (*models.Partner, error)
}

// PartnerFileFields - поля формы, принимающие файлы при обновлении партнёра.
var PartnerFileFields = []upload.Field{
	{Name: "logo", MaxCount: 1},
	{Name: "marketplace_cover", MaxCount: 1},
	{Name: "company_cover", MaxCount: 1},
}

// PartnerHandler - структура для обработки HTTP-запросов к партнёрам.
type PartnerHandler struct {
	Controller    PartnerController
	Ingestor      *upload.Ingestor
	Logger        *zap.Logger
	Timeout       time.Duration
	MaxUploadSize int64
}

// NewPartnerHandler создаёт новый экземпляр PartnerHandler.
func NewPartnerHandler(controller PartnerController, ingestor *upload.Ingestor, logger *zap.Logger, timeout time.Duration, maxUploadSize int64) *PartnerHandler {
	return &PartnerHandler{
		Controller:    controller,
		Ingestor:      ingestor,
		Logger:        logger,
		Timeout:       timeout,
		MaxUploadSize: maxUploadSize,
	}
}

// CreatePartner обрабатывает запросы для создания партнёра.
func (h *PartnerHandler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.PartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	partner, err := h.Controller.CreatePartner(ctx, req)
	if err != nil {
		h.sendError(w, r, err, "failed to create partner")
		return
	}
	utils.SendJSON(w, http.StatusCreated, partner)
}

// ListPartners обрабатывает запросы для получения списка партнёров.
func (h *PartnerHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	ids, err := utils.ParseIds(r.URL.Query()["id"])
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	partners, err := h.Controller.ListPartners(ctx, ids)
	if err != nil {
		h.sendError(w, r, err, "failed to fetch partners")
		return
	}
	if partners == nil {
		partners = []models.Partner{}
	}
	utils.SendJSON(w, http.StatusOK, partners)
}

// GetPartner обрабатывает запросы для получения партнёра с его предложениями.
func (h *PartnerHandler) GetPartner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	result, err := h.Controller.GetPartnerWithOffers(ctx, r.PathValue("id"))
	if err != nil {
		h.sendError(w, r, err, "failed to fetch partner")
		return
	}
	if result.ServiceOffers == nil {
		result.ServiceOffers = []models.ServiceOffer{}
	}
	utils.SendJSON(w, http.StatusOK, result)
}

// UpdatePartner обрабатывает multipart-запросы для изменения партнёра.
// Файлы сохраняются на диск до вызова контроллера.
func (h *PartnerHandler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize)

	form, err := h.Ingestor.Ingest(r)
	if err != nil {
		h.sendUploadError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	update := models.PartnerUpdate{
		About:                form.Value("about"),
		ImportantInformation: form.Value("important_information"),
	}

	partner, err := h.Controller.UpdatePartner(ctx, r.PathValue("id"), update, form.Files)
	if err != nil {
		h.sendError(w, r, err, "failed to update partner")
		return
	}
	utils.SendJSON(w, http.StatusOK, partner)
}

// RollbackPartner обрабатывает запросы для отката версии партнёра.
func (h *PartnerHandler) RollbackPartner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	partner, err := h.Controller.RollbackPartner(ctx, r.PathValue("id"), r.PathValue("version"))
	if err != nil {
		h.sendError(w, r, err, "failed to rollback partner")
		return
	}
	utils.SendJSON(w, http.StatusOK, partner)
}

func (h *PartnerHandler) sendError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	logger := LoggerFromContext(r.Context(), h.Logger)

	if errorResponse, ok := models.AsErrorResponse(err); ok {
		if errorResponse.StatusCode >= http.StatusInternalServerError {
			logger.Error("controller failed", zap.Error(err))
		} else {
			logger.Info("request rejected", zap.Int("status", errorResponse.StatusCode), zap.Error(err))
		}
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}

	logger.Error("controller failed", zap.Error(err))
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func (h *PartnerHandler) sendUploadError(w http.ResponseWriter, r *http.Request, err error) {
	logger := LoggerFromContext(r.Context(), h.Logger)

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		logger.Info("upload too large", zap.Int64("limit", maxBytesErr.Limit))
		// остаток тела не дочитан, соединение нельзя переиспользовать
		w.Header().Set("Connection", "close")
		utils.SendErrorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
	case upload.IsMalformed(err):
		logger.Info("upload rejected", zap.Error(err))
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("failed to store upload", zap.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to store uploaded files")
	}
}
