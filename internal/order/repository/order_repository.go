package repository

import (
	"context"
	"database/sql"
	"fmt"

	"radagast/internal/domain"
	"radagast/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `
		SELECT id, customerId, productId, quantity, amountPaid,
		       length, width, height, weight,
		       orderStatus, paymentStatus, deliveryStatus,
		       carrierOrderId, shipmentId, carrierStatus, trackingUrl,
		       gatewayOrderId, gatewayPaymentId, orderDate
		FROM Orders
		WHERE id = ?
	`

	var o domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.CustomerID, &o.ProductID, &o.Quantity, &o.AmountPaid,
		&o.Length, &o.Width, &o.Height, &o.Weight,
		&o.OrderStatus, &o.PaymentStatus, &o.DeliveryStatus,
		&o.CarrierOrderID, &o.ShipmentID, &o.CarrierStatus, &o.TrackingURL,
		&o.GatewayOrderID, &o.GatewayPaymentID, &o.OrderDate,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &o, nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (customerId, productId, quantity, amountPaid,
		                    length, width, height, weight,
		                    orderStatus, paymentStatus, deliveryStatus,
		                    gatewayOrderId, gatewayPaymentId)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		o.CustomerID, o.ProductID, o.Quantity, o.AmountPaid,
		o.Length, o.Width, o.Height, o.Weight,
		o.OrderStatus, o.PaymentStatus, o.DeliveryStatus,
		o.GatewayOrderID, o.GatewayPaymentID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting order insert id: %w", err)
	}

	return uint(id), nil
}

// SetCarrierRefs records a successful provisioning: the carrier's order
// and shipment identifiers, the optional tracking URL, and the local
// "Created" marker, in one write.
func (r *MySQLOrderRepository) SetCarrierRefs(ctx context.Context, id uint, carrierOrderID, shipmentID string, trackingURL *string, carrierStatus string) error {
	query := `
		UPDATE Orders
		SET carrierOrderId = ?, shipmentId = ?, trackingUrl = ?, carrierStatus = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, carrierOrderID, shipmentID, trackingURL, carrierStatus, id)
	if err != nil {
		return fmt.Errorf("updating order carrier refs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

// SetCarrierStatus writes only the carrier-status column. Provisioning
// failures land here as "Failed: <reason>" without touching any
// previously stored carrier references.
func (r *MySQLOrderRepository) SetCarrierStatus(ctx context.Context, id uint, carrierStatus string) error {
	query := `UPDATE Orders SET carrierStatus = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, carrierStatus, id)
	if err != nil {
		return fmt.Errorf("updating order carrier status: %w", err)
	}

	return nil
}

// UpdateDeliveryStatus persists the reconciled delivery state together
// with the raw carrier text. The raw text is always overwritten for
// audit even when the delivery state did not move.
func (r *MySQLOrderRepository) UpdateDeliveryStatus(ctx context.Context, id uint, deliveryStatus, carrierStatus string) error {
	query := `UPDATE Orders SET deliveryStatus = ?, carrierStatus = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, deliveryStatus, carrierStatus, id)
	if err != nil {
		return fmt.Errorf("updating order delivery status: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) UpdateOrderStatus(ctx context.Context, id uint, orderStatus string) error {
	query := `UPDATE Orders SET orderStatus = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, orderStatus, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

// FindByGatewayPayment returns the order rows a past confirmation of the
// same gateway payment created, so a duplicate confirmation can be
// answered as a no-op success with the original rows.
func (r *MySQLOrderRepository) FindByGatewayPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID string) ([]domain.Order, error) {
	query := `
		SELECT id, customerId, productId, quantity, amountPaid,
		       length, width, height, weight,
		       orderStatus, paymentStatus, deliveryStatus,
		       carrierOrderId, shipmentId, carrierStatus, trackingUrl,
		       gatewayOrderId, gatewayPaymentId, orderDate
		FROM Orders
		WHERE gatewayOrderId = ? AND gatewayPaymentId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, gatewayOrderID, gatewayPaymentID)
	if err != nil {
		return nil, fmt.Errorf("querying orders by gateway payment: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.ProductID, &o.Quantity, &o.AmountPaid,
			&o.Length, &o.Width, &o.Height, &o.Weight,
			&o.OrderStatus, &o.PaymentStatus, &o.DeliveryStatus,
			&o.CarrierOrderID, &o.ShipmentID, &o.CarrierStatus, &o.TrackingURL,
			&o.GatewayOrderID, &o.GatewayPaymentID, &o.OrderDate,
		); err != nil {
			return nil, fmt.Errorf("scanning order by gateway payment: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders by gateway payment: %w", err)
	}

	return orders, nil
}
