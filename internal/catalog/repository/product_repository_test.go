package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
	"radagast/internal/infrastructure/mysql"
	"radagast/internal/testutil"
)

func beginTx(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	return tx
}

func TestProductRepository_InsertAndFindByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	ctx := context.Background()

	tx := beginTx(t, db)
	id, err := repo.Insert(ctx, tx, domain.Product{
		Name:       "Tea Sampler - Green",
		MRP:        499,
		OfferPrice: 499,
		InStock:    true,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx = beginTx(t, db)
	defer tx.Rollback()

	found, err := repo.FindByName(ctx, tx, "Tea Sampler - Green")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.InDelta(t, 499.0, found.OfferPrice, 0.001)
	assert.Nil(t, found.SKU)
	assert.True(t, found.InStock)
}

func TestProductRepository_FindBySKU(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	ctx := context.Background()

	sku := "TS-GR-01"
	tx := beginTx(t, db)
	id, err := repo.Insert(ctx, tx, domain.Product{
		Name:       "Tea Sampler - Green",
		SKU:        &sku,
		OfferPrice: 499,
		InStock:    true,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx = beginTx(t, db)
	defer tx.Rollback()

	found, err := repo.FindBySKU(ctx, tx, "TS-GR-01")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	_, err = repo.FindBySKU(ctx, tx, "NO-SUCH-SKU")
	require.Error(t, err)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

// Mirrors the customer-side snapshot test: the duplicate-key fallback
// must re-read with a locking read or it misses the competing row.
func TestProductRepository_FindByNameForUpdateSeesCommittedRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.FindByName(ctx, tx, "Honey Jar")
	require.Error(t, err)

	_, err = db.Exec(
		`INSERT INTO Products (name, offerPrice, inStock) VALUES (?, ?, ?)`,
		"Honey Jar", 350, true,
	)
	require.NoError(t, err)

	_, err = repo.Insert(ctx, tx, domain.Product{Name: "Honey Jar", OfferPrice: 350, InStock: true})
	require.Error(t, err)
	require.True(t, mysql.IsDuplicateKey(err))

	_, err = repo.FindByName(ctx, tx, "Honey Jar")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	found, err := repo.FindByNameForUpdate(ctx, tx, "Honey Jar")
	require.NoError(t, err)
	assert.InDelta(t, 350.0, found.OfferPrice, 0.001)
}

func TestProductRepository_DuplicateNameIsDuplicateKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLProductRepository(db)
	ctx := context.Background()

	tx := beginTx(t, db)
	_, err := repo.Insert(ctx, tx, domain.Product{Name: "Honey Jar", OfferPrice: 350, InStock: true})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx = beginTx(t, db)
	defer tx.Rollback()

	_, err = repo.Insert(ctx, tx, domain.Product{Name: "Honey Jar", OfferPrice: 400, InStock: true})
	require.Error(t, err)
	assert.True(t, mysql.IsDuplicateKey(err))
}
