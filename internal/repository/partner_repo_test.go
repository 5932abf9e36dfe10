package repository

import (
	"context"
	"testing"

	"github.com/senyabanana/partner-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartnerRepoCreateAndGet(t *testing.T) {
	repo := NewPostgresPartnerRepository(testPool(t))
	ctx := context.Background()

	created, err := repo.CreatePartner(ctx, models.PartnerRequest{Name: "Acme", Description: "Anvils"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int32(1), created.Version)
	assert.Nil(t, created.Logo)
	assert.Nil(t, created.About)

	got, err := repo.GetPartnerById(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "Anvils", got.Description)
}

func TestPartnerRepoUnknownIdReturnsNoRows(t *testing.T) {
	repo := NewPostgresPartnerRepository(testPool(t))
	ctx := context.Background()

	_, err := repo.GetPartnerById(ctx, 999999)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = repo.UpdatePartner(ctx, 999999, models.PartnerUpdate{About: strPtr("x")}, PartnerFiles{})
	require.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = repo.UpdatePartner(ctx, 999999, models.PartnerUpdate{}, PartnerFiles{})
	require.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = repo.RollbackPartner(ctx, 999999, 1)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestPartnerRepoGetPartnersOrderAndFilter(t *testing.T) {
	repo := NewPostgresPartnerRepository(testPool(t))
	ctx := context.Background()

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := repo.CreatePartner(ctx, models.PartnerRequest{Name: name, Description: "d"})
		require.NoError(t, err)
	}

	all, err := repo.GetPartners(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})

	filtered, err := repo.GetPartners(ctx, []int64{3, 1, 42})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "Zeta", filtered[0].Name)
	assert.Equal(t, "Mid", filtered[1].Name)

	none, err := repo.GetPartners(ctx, []int64{42})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPartnerRepoUpdateSetsEveryColumn(t *testing.T) {
	repo := NewPostgresPartnerRepository(testPool(t))
	ctx := context.Background()

	p, err := repo.CreatePartner(ctx, models.PartnerRequest{Name: "Acme", Description: "Anvils"})
	require.NoError(t, err)

	updated, err := repo.UpdatePartner(ctx, p.ID,
		models.PartnerUpdate{About: strPtr("about"), ImportantInformation: strPtr("info")},
		PartnerFiles{
			Logo:             strPtr("logo-1-1-l.png"),
			MarketplaceCover: strPtr("marketplace_cover-1-2-m.png"),
			CompanyCover:     strPtr("company_cover-1-3-c.png"),
		})
	require.NoError(t, err)

	assert.Equal(t, "about", *updated.About)
	assert.Equal(t, "info", *updated.ImportantInformation)
	assert.Equal(t, "logo-1-1-l.png", *updated.Logo)
	assert.Equal(t, "marketplace_cover-1-2-m.png", *updated.MarketplaceCover)
	assert.Equal(t, "company_cover-1-3-c.png", *updated.CompanyCover)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, int32(2), updated.Version)
}

func TestPartnerRepoUpdatePartialKeepsOtherColumns(t *testing.T) {
	repo := NewPostgresPartnerRepository(testPool(t))
	ctx := context.Background()

	p, err := repo.CreatePartner(ctx, models.PartnerRequest{Name: "Acme", Description: "Anvils"})
	require.NoError(t, err)
	_, err = repo.UpdatePartner(ctx, p.ID, models.PartnerUpdate{About: strPtr("first")}, PartnerFiles{})
	require.NoError(t, err)

	updated, err := repo.UpdatePartner(ctx, p.ID, models.PartnerUpdate{}, PartnerFiles{CompanyCover: strPtr("c.png")})
	require.NoError(t, err)
	assert.Equal(t, "first", *updated.About)
	assert.Equal(t, "c.png", *updated.CompanyCover)
	assert.Nil(t, updated.Logo)
	assert.Equal(t, int32(3), updated.Version)
}

func TestPartnerRepoEmptyUpdateReturnsCurrentRow(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgresPartnerRepository(pool)
	ctx := context.Background()

	p, err := repo.CreatePartner(ctx, models.PartnerRequest{Name: "Acme", Description: "Anvils"})
	require.NoError(t, err)

	same, err := repo.UpdatePartner(ctx, p.ID, models.PartnerUpdate{}, PartnerFiles{})
	require.NoError(t, err)
	assert.Equal(t, p.Version, same.Version)
	assert.Equal(t, p.Name, same.Name)

	var history int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM partner_history`).Scan(&history))
	assert.Zero(t, history)
}

func TestPartnerRepoUpdateThenRollback(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgresPartnerRepository(pool)
	ctx := context.Background()

	p, err := repo.CreatePartner(ctx, models.PartnerRequest{Name: "Acme", Description: "Anvils"})
	require.NoError(t, err)

	_, err = repo.UpdatePartner(ctx, p.ID, models.PartnerUpdate{About: strPtr("v2 about")}, PartnerFiles{Logo: strPtr("logo-v2.png")})
	require.NoError(t, err)
	v3, err := repo.UpdatePartner(ctx, p.ID,
		models.PartnerUpdate{About: strPtr("v3 about"), ImportantInformation: strPtr("v3 info")},
		PartnerFiles{Logo: strPtr("logo-v3.png"), CompanyCover: strPtr("cover-v3.png")})
	require.NoError(t, err)
	assert.Equal(t, int32(3), v3.Version)

	var history int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM partner_history WHERE id = $1`, p.ID).Scan(&history))
	assert.Equal(t, 2, history)

	restored, err := repo.RollbackPartner(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(4), restored.Version)
	assert.Equal(t, "Acme", restored.Name)
	assert.Equal(t, "Anvils", restored.Description)
	require.NotNil(t, restored.About)
	assert.Equal(t, "v2 about", *restored.About)
	require.NotNil(t, restored.Logo)
	assert.Equal(t, "logo-v2.png", *restored.Logo)
	assert.Nil(t, restored.ImportantInformation)
	assert.Nil(t, restored.CompanyCover)

	original, err := repo.RollbackPartner(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(5), original.Version)
	assert.Nil(t, original.About)
	assert.Nil(t, original.Logo)

	_, err = repo.RollbackPartner(ctx, p.ID, 99)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}
