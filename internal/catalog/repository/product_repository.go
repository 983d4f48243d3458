package repository

import (
	"context"
	"database/sql"
	"fmt"

	"radagast/internal/domain"
	"radagast/internal/errors"
)

type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

func (r *MySQLProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	query := `
		SELECT id, name, sku, mrp, offerPrice, inStock, stockCount, createdAt
		FROM Products
		WHERE id = ?
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.SKU, &p.MRP, &p.OfferPrice, &p.InStock, &p.StockCount, &p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

func (r *MySQLProductRepository) FindByName(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error) {
	query := `
		SELECT id, name, sku, mrp, offerPrice, inStock, stockCount, createdAt
		FROM Products
		WHERE name = ?
	`

	var p domain.Product
	err := tx.QueryRowContext(ctx, query, name).Scan(
		&p.ID, &p.Name, &p.SKU, &p.MRP, &p.OfferPrice, &p.InStock, &p.StockCount, &p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by name: %w", err)
	}

	return &p, nil
}

func (r *MySQLProductRepository) FindBySKU(ctx context.Context, tx *sql.Tx, sku string) (*domain.Product, error) {
	query := `
		SELECT id, name, sku, mrp, offerPrice, inStock, stockCount, createdAt
		FROM Products
		WHERE sku = ?
	`

	var p domain.Product
	err := tx.QueryRowContext(ctx, query, sku).Scan(
		&p.ID, &p.Name, &p.SKU, &p.MRP, &p.OfferPrice, &p.InStock, &p.StockCount, &p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with sku %s not found", sku))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by sku: %w", err)
	}

	return &p, nil
}

// FindByNameForUpdate is the locking variant used after a duplicate-key
// insert; see customer repository FindByEmailForUpdate for why the plain
// SELECT cannot serve that path under REPEATABLE READ.
func (r *MySQLProductRepository) FindByNameForUpdate(ctx context.Context, tx *sql.Tx, name string) (*domain.Product, error) {
	query := `
		SELECT id, name, sku, mrp, offerPrice, inStock, stockCount, createdAt
		FROM Products
		WHERE name = ?
		FOR UPDATE
	`

	var p domain.Product
	err := tx.QueryRowContext(ctx, query, name).Scan(
		&p.ID, &p.Name, &p.SKU, &p.MRP, &p.OfferPrice, &p.InStock, &p.StockCount, &p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by name for update: %w", err)
	}

	return &p, nil
}

func (r *MySQLProductRepository) FindBySKUForUpdate(ctx context.Context, tx *sql.Tx, sku string) (*domain.Product, error) {
	query := `
		SELECT id, name, sku, mrp, offerPrice, inStock, stockCount, createdAt
		FROM Products
		WHERE sku = ?
		FOR UPDATE
	`

	var p domain.Product
	err := tx.QueryRowContext(ctx, query, sku).Scan(
		&p.ID, &p.Name, &p.SKU, &p.MRP, &p.OfferPrice, &p.InStock, &p.StockCount, &p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with sku %s not found", sku))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by sku for update: %w", err)
	}

	return &p, nil
}

// Insert creates a catalog row on first reference. Price fields are
// inferred from the sale that introduced the product and are never
// updated on repeat reference; whether that should become price history
// or a live price is an open product decision, so the first-seen price
// stands.
func (r *MySQLProductRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Product) (uint, error) {
	query := `
		INSERT INTO Products (name, sku, mrp, offerPrice, inStock, stockCount)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		p.Name, p.SKU, p.MRP, p.OfferPrice, p.InStock, p.StockCount,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting product insert id: %w", err)
	}

	return uint(id), nil
}
