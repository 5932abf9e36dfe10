package repository

import (
	"context"
	"fmt"

	"github.com/senyabanana/partner-service/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OfferRepository - интерфейс для работы с предложениями партнёров.
type OfferRepository interface {
	GetOffersByPartner(ctx context.Context, partnerId int64) ([]models.ServiceOffer, error)
}

// PostgresOfferRepository - реализация OfferRepository для базы данных.
type PostgresOfferRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresOfferRepository создаёт новый экземпляр PostgresOfferRepository.
func NewPostgresOfferRepository(db *pgxpool.Pool) *PostgresOfferRepository {
	return &PostgresOfferRepository{DB: db}
}

// GetOffersByPartner возвращает предложения партнёра, отсортированные по названию.
func (r *PostgresOfferRepository) GetOffersByPartner(ctx context.Context, partnerId int64) ([]models.ServiceOffer, error) {
	query := `SELECT id, partner_id, title, term_months, monthly_rate, setup_fee, renewable, description, created_at
	          FROM service_offer WHERE partner_id = $1 ORDER BY title`

	rows, err := r.DB.Query(ctx, query, partnerId)
	if err != nil {
		return nil, fmt.Errorf("failed to query service offers: %w", err)
	}
	defer rows.Close()

	offers := make([]models.ServiceOffer, 0)
	for rows.Next() {
		var o models.ServiceOffer
		if err := rows.Scan(
			&o.ID,
			&o.PartnerID,
			&o.Title,
			&o.TermMonths,
			&o.MonthlyRate,
			&o.SetupFee,
			&o.Renewable,
			&o.Description,
			&o.CreatedAt); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}
