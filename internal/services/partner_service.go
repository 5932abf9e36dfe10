package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/senyabanana/partner-service/internal/models"
	"github.com/senyabanana/partner-service/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
)

// PartnerService - реализация бизнес-логики партнёров поверх репозиториев.
type PartnerService struct {
	Partners repository.PartnerRepository
	Offers   repository.OfferRepository
	validate *validator.Validate
}

// NewPartnerService создаёт новый экземпляр PartnerService.
func NewPartnerService(partners repository.PartnerRepository, offers repository.OfferRepository) *PartnerService {
	return &PartnerService{
		Partners: partners,
		Offers:   offers,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreatePartner создает нового партнёра.
func (s *PartnerService) CreatePartner(ctx context.Context, req models.PartnerRequest) (*models.Partner, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, models.WrapErrorResponse(http.StatusBadRequest, "missing required fields: name and description", err)
	}

	partner, err := s.Partners.CreatePartner(ctx, req)
	if err != nil {
		return nil, models.Internal(err)
	}
	return partner, nil
}

// ListPartners получает список партнёров.
func (s *PartnerService) ListPartners(ctx context.Context, ids []int64) ([]models.Partner, error) {
	partners, err := s.Partners.GetPartners(ctx, ids)
	if err != nil {
		return nil, models.Internal(err)
	}
	return partners, nil
}

// GetPartnerWithOffers получает партнёра вместе с его предложениями.
func (s *PartnerService) GetPartnerWithOffers(ctx context.Context, id string) (*models.PartnerWithOffers, error) {
	partnerId, err := parsePartnerId(id)
	if err != nil {
		return nil, err
	}

	partner, err := s.Partners.GetPartnerById(ctx, partnerId)
	if err != nil {
		return nil, partnerLookupError(err)
	}

	offers, err := s.Offers.GetOffersByPartner(ctx, partner.ID)
	if err != nil {
		return nil, models.Internal(err)
	}
	return &models.PartnerWithOffers{Partner: *partner, ServiceOffers: offers}, nil
}

// UpdatePartner обновляет текстовые поля партнёра и ссылки на загруженные файлы.
func (s *PartnerService) UpdatePartner(ctx context.Context, id string, update models.PartnerUpdate, files []models.UploadedFile) (*models.Partner, error) {
	partnerId, err := parsePartnerId(id)
	if err != nil {
		return nil, err
	}

	var refs repository.PartnerFiles
	for _, f := range files {
		filename := f.Filename
		switch f.Field {
		case "logo":
			refs.Logo = &filename
		case "marketplace_cover":
			refs.MarketplaceCover = &filename
		case "company_cover":
			refs.CompanyCover = &filename
		default:
			return nil, models.NewErrorResponse(http.StatusBadRequest, "unsupported file field: "+f.Field)
		}
	}

	partner, err := s.Partners.UpdatePartner(ctx, partnerId, update, refs)
	if err != nil {
		return nil, partnerLookupError(err)
	}
	return partner, nil
}

// RollbackPartner откатывает партнёра к сохранённой версии.
func (s *PartnerService) RollbackPartner(ctx context.Context, id, versionStr string) (*models.Partner, error) {
	partnerId, err := parsePartnerId(id)
	if err != nil {
		return nil, err
	}

	version, err := strconv.Atoi(versionStr)
	if err != nil || version <= 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid version number")
	}

	partner, err := s.Partners.RollbackPartner(ctx, partnerId, version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("partner version not found")
		}
		return nil, models.Internal(err)
	}
	return partner, nil
}

// parsePartnerId разбирает идентификатор из пути. Нечисловой id не может совпасть ни с одной записью.
func parsePartnerId(id string) (int64, error) {
	partnerId, err := strconv.ParseInt(id, 10, 64)
	if err != nil || partnerId <= 0 {
		return 0, models.NotFound("partner not found")
	}
	return partnerId, nil
}

func partnerLookupError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NotFound("partner not found")
	}
	return models.Internal(err)
}
