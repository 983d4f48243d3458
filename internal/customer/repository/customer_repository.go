package repository

import (
	"context"
	"database/sql"
	"fmt"

	"radagast/internal/domain"
	"radagast/internal/errors"
)

type MySQLCustomerRepository struct {
	db *sql.DB
}

func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}

func (r *MySQLCustomerRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	query := `
		SELECT id, handle, email, name, phone, address, city, state, pincode, country,
		       createdAt, updatedAt
		FROM Customers
		WHERE id = ?
	`

	var c domain.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Handle, &c.Email, &c.Name, &c.Phone, &c.Address,
		&c.City, &c.State, &c.Pincode, &c.Country, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("customer with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by id: %w", err)
	}

	return &c, nil
}

// FindByEmail runs inside the caller's transaction so a customer created
// earlier in the same checkout is visible to later lines.
func (r *MySQLCustomerRepository) FindByEmail(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error) {
	query := `
		SELECT id, handle, email, name, phone, address, city, state, pincode, country,
		       createdAt, updatedAt
		FROM Customers
		WHERE email = ?
	`

	var c domain.Customer
	err := tx.QueryRowContext(ctx, query, email).Scan(
		&c.ID, &c.Handle, &c.Email, &c.Name, &c.Phone, &c.Address,
		&c.City, &c.State, &c.Pincode, &c.Country, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("customer with email %s not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by email: %w", err)
	}

	return &c, nil
}

// FindByEmailForUpdate is the locking variant used after a duplicate-key
// insert. Under REPEATABLE READ a plain SELECT reads the transaction's
// snapshot and cannot see a row another connection committed after it was
// taken; FOR UPDATE reads the latest committed version.
func (r *MySQLCustomerRepository) FindByEmailForUpdate(ctx context.Context, tx *sql.Tx, email string) (*domain.Customer, error) {
	query := `
		SELECT id, handle, email, name, phone, address, city, state, pincode, country,
		       createdAt, updatedAt
		FROM Customers
		WHERE email = ?
		FOR UPDATE
	`

	var c domain.Customer
	err := tx.QueryRowContext(ctx, query, email).Scan(
		&c.ID, &c.Handle, &c.Email, &c.Name, &c.Phone, &c.Address,
		&c.City, &c.State, &c.Pincode, &c.Country, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("customer with email %s not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by email for update: %w", err)
	}

	return &c, nil
}

// HandleExists reads with FOR SHARE so a retry after a handle collision
// sees handles committed by other connections, not the transaction's
// snapshot, and so the checked gap stays locked until this transaction
// commits its own insert.
func (r *MySQLCustomerRepository) HandleExists(ctx context.Context, tx *sql.Tx, handle string) (bool, error) {
	query := `SELECT COUNT(1) FROM Customers WHERE handle = ? FOR SHARE`

	var count int
	if err := tx.QueryRowContext(ctx, query, handle).Scan(&count); err != nil {
		return false, fmt.Errorf("checking handle existence: %w", err)
	}

	return count > 0, nil
}

func (r *MySQLCustomerRepository) Insert(ctx context.Context, tx *sql.Tx, c domain.Customer) (uint, error) {
	query := `
		INSERT INTO Customers (handle, email, name, phone, address, city, state, pincode, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		c.Handle, c.Email, c.Name, c.Phone, c.Address, c.City, c.State, c.Pincode, c.Country,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting customer insert id: %w", err)
	}

	return uint(id), nil
}

// UpdateContact overwrites contact and address fields in place. Customers
// are never versioned; the latest checkout wins.
func (r *MySQLCustomerRepository) UpdateContact(ctx context.Context, tx *sql.Tx, c domain.Customer) error {
	query := `
		UPDATE Customers
		SET name = ?, phone = ?, address = ?, city = ?, state = ?, pincode = ?, country = ?
		WHERE id = ?
	`

	// MySQL reports zero affected rows when the new values equal the old
	// ones, so a repeat checkout with identical contact details must not
	// be treated as a missing customer here.
	_, err := tx.ExecContext(ctx, query,
		c.Name, c.Phone, c.Address, c.City, c.State, c.Pincode, c.Country, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating customer contact: %w", err)
	}

	return nil
}
