package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/senyabanana/partner-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PartnerFiles содержит ссылки на сохранённые файлы партнёра. nil - не менять.
type PartnerFiles struct {
	Logo             *string
	MarketplaceCover *string
	CompanyCover     *string
}

// PartnerRepository - интерфейс для работы с партнёрами.
type PartnerRepository interface {
	CreatePartner(ctx context.Context, req models.PartnerRequest) (*models.Partner, error)
	GetPartners(ctx context.Context, ids []int64) ([]models.Partner, error)
	GetPartnerById(ctx context.Context, id int64) (*models.Partner, error)
	UpdatePartner(ctx context.Context, id int64, update models.PartnerUpdate, files PartnerFiles) (*models.Partner, error)
	RollbackPartner(ctx context.Context, id int64, version int) (*models.Partner, error)
}

const partnerColumns = `id, name, description, logo, marketplace_cover, company_cover, about, important_information, version, created_at, updated_at`

// PostgresPartnerRepository - реализация PartnerRepository для базы данных.
type PostgresPartnerRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresPartnerRepository создаёт новый экземпляр PostgresPartnerRepository.
func NewPostgresPartnerRepository(db *pgxpool.Pool) *PostgresPartnerRepository {
	return &PostgresPartnerRepository{DB: db}
}

func scanPartner(row pgx.Row) (*models.Partner, error) {
	var p models.Partner
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Logo,
		&p.MarketplaceCover,
		&p.CompanyCover,
		&p.About,
		&p.ImportantInformation,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePartner создает нового партнёра.
func (r *PostgresPartnerRepository) CreatePartner(ctx context.Context, req models.PartnerRequest) (*models.Partner, error) {
	query := `INSERT INTO partner (name, description) VALUES ($1, $2) RETURNING ` + partnerColumns
	partner, err := scanPartner(r.DB.QueryRow(ctx, query, req.Name, req.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to insert partner: %w", err)
	}
	return partner, nil
}

// GetPartners возвращает список партнёров, при непустом ids - только указанных.
func (r *PostgresPartnerRepository) GetPartners(ctx context.Context, ids []int64) ([]models.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partner`
	var args []interface{}
	if len(ids) > 0 {
		query += ` WHERE id = ANY($1)`
		args = append(args, pq.Array(ids))
	}
	query += ` ORDER BY id`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners: %w", err)
	}
	defer rows.Close()

	partners := make([]models.Partner, 0)
	for rows.Next() {
		partner, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, *partner)
	}
	return partners, rows.Err()
}

// GetPartnerById возвращает партнёра по ID. Если партнёр не найден - pgx.ErrNoRows.
func (r *PostgresPartnerRepository) GetPartnerById(ctx context.Context, id int64) (*models.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partner WHERE id = $1`
	return scanPartner(r.DB.QueryRow(ctx, query, id))
}

// UpdatePartner сохраняет текущую версию в историю и обновляет переданные поля.
func (r *PostgresPartnerRepository) UpdatePartner(ctx context.Context, id int64, update models.PartnerUpdate, files PartnerFiles) (*models.Partner, error) {
	var updates []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value *string) {
		if value == nil {
			return
		}
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, *value)
		argIndex++
	}
	set("about", update.About)
	set("important_information", update.ImportantInformation)
	set("logo", files.Logo)
	set("marketplace_cover", files.MarketplaceCover)
	set("company_cover", files.CompanyCover)

	if len(updates) == 0 {
		return r.GetPartnerById(ctx, id)
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err = snapshotPartner(ctx, tx, id); err != nil {
		return nil, err
	}

	updates = append(updates, "version = version + 1", "updated_at = now()")
	query := `UPDATE partner SET ` + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", argIndex) + partnerColumns
	args = append(args, id)

	partner, err := scanPartner(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return partner, nil
}

// RollbackPartner откатывает партнёра к версии из истории.
func (r *PostgresPartnerRepository) RollbackPartner(ctx context.Context, id int64, version int) (*models.Partner, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var old models.Partner
	query := `SELECT name, description, logo, marketplace_cover, company_cover, about, important_information
	          FROM partner_history WHERE id = $1 AND version = $2`
	err = tx.QueryRow(ctx, query, id, version).Scan(
		&old.Name,
		&old.Description,
		&old.Logo,
		&old.MarketplaceCover,
		&old.CompanyCover,
		&old.About,
		&old.ImportantInformation,
	)
	if err != nil {
		return nil, err
	}

	if err = snapshotPartner(ctx, tx, id); err != nil {
		return nil, err
	}

	updateQuery := `UPDATE partner SET name = $1, description = $2, logo = $3, marketplace_cover = $4, company_cover = $5,
	                about = $6, important_information = $7, version = version + 1, updated_at = now()
	                WHERE id = $8 RETURNING ` + partnerColumns
	partner, err := scanPartner(tx.QueryRow(ctx, updateQuery,
		old.Name,
		old.Description,
		old.Logo,
		old.MarketplaceCover,
		old.CompanyCover,
		old.About,
		old.ImportantInformation,
		id))
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return partner, nil
}

// snapshotPartner блокирует строку партнёра и копирует её текущую версию в partner_history.
// Если партнёра нет - pgx.ErrNoRows.
func snapshotPartner(ctx context.Context, tx pgx.Tx, id int64) error {
	var version int32
	if err := tx.QueryRow(ctx, `SELECT version FROM partner WHERE id = $1 FOR UPDATE`, id).Scan(&version); err != nil {
		return err
	}

	query := `INSERT INTO partner_history (id, name, description, logo, marketplace_cover, company_cover, about, important_information, version)
	          SELECT id, name, description, logo, marketplace_cover, company_cover, about, important_information, version
	          FROM partner WHERE id = $1`
	if _, err := tx.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to save partner history version %d: %w", version, err)
	}
	return nil
}
