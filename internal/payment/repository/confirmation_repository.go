package repository

import (
	"context"
	"database/sql"
	"fmt"

	"radagast/internal/errors"
	"radagast/internal/infrastructure/mysql"
)

// MySQLConfirmationRepository guards payment-confirmation idempotency.
// One row per (gatewayOrderId, gatewayPaymentId) pair, inserted inside
// the order-placement transaction; the unique key turns a replayed
// confirmation into a ConflictError before any order row is written.
type MySQLConfirmationRepository struct {
	db *sql.DB
}

func NewMySQLConfirmationRepository(db *sql.DB) *MySQLConfirmationRepository {
	return &MySQLConfirmationRepository{db: db}
}

func (r *MySQLConfirmationRepository) Insert(ctx context.Context, tx *sql.Tx, gatewayOrderID, gatewayPaymentID string) error {
	query := `
		INSERT INTO PaymentConfirmations (gatewayOrderId, gatewayPaymentId)
		VALUES (?, ?)
	`

	_, err := tx.ExecContext(ctx, query, gatewayOrderID, gatewayPaymentID)
	if mysql.IsDuplicateKey(err) {
		return errors.NewConflictError(fmt.Sprintf("payment %s already confirmed", gatewayPaymentID))
	}
	if err != nil {
		return fmt.Errorf("inserting payment confirmation: %w", err)
	}

	return nil
}
