package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Expects a MySQL
// instance on localhost:3306 with a database named 'radagast_test';
// tests skip when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/radagast_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"PaymentConfirmations", "Orders", "Products", "Customers"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the tests need. Production schema
// management is owned elsewhere; this mirrors it.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createCustomers := `
	CREATE TABLE IF NOT EXISTS Customers (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		handle VARCHAR(120) NOT NULL,
		email VARCHAR(120) NOT NULL,
		name VARCHAR(120) NOT NULL,
		phone VARCHAR(20) NULL,
		address VARCHAR(255) NULL,
		city VARCHAR(80) NULL,
		state VARCHAR(80) NULL,
		pincode VARCHAR(12) NULL,
		country VARCHAR(80) NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_customers_email (email),
		UNIQUE KEY uq_customers_handle (handle)
	)`

	createProducts := `
	CREATE TABLE IF NOT EXISTS Products (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		sku VARCHAR(50) NULL,
		mrp DOUBLE NOT NULL DEFAULT 0,
		offerPrice DOUBLE NOT NULL DEFAULT 0,
		inStock TINYINT(1) NOT NULL DEFAULT 1,
		stockCount INT NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_products_name (name),
		UNIQUE KEY uq_products_sku (sku)
	)`

	createOrders := `
	CREATE TABLE IF NOT EXISTS Orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		customerId INT UNSIGNED NOT NULL,
		productId INT UNSIGNED NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		amountPaid DOUBLE NOT NULL DEFAULT 0,
		length DOUBLE NULL,
		width DOUBLE NULL,
		height DOUBLE NULL,
		weight DOUBLE NULL,
		orderStatus VARCHAR(50) NOT NULL DEFAULT 'Pending',
		paymentStatus VARCHAR(50) NOT NULL DEFAULT 'Pending',
		deliveryStatus VARCHAR(50) NOT NULL DEFAULT 'Not Dispatched',
		carrierOrderId VARCHAR(64) NULL,
		shipmentId VARCHAR(64) NULL,
		carrierStatus VARCHAR(600) NULL,
		trackingUrl VARCHAR(255) NULL,
		gatewayOrderId VARCHAR(64) NULL,
		gatewayPaymentId VARCHAR(64) NULL,
		orderDate DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_orders_customer FOREIGN KEY (customerId) REFERENCES Customers (id),
		CONSTRAINT fk_orders_product FOREIGN KEY (productId) REFERENCES Products (id)
	)`

	createConfirmations := `
	CREATE TABLE IF NOT EXISTS PaymentConfirmations (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		gatewayOrderId VARCHAR(64) NOT NULL,
		gatewayPaymentId VARCHAR(64) NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_confirmations_payment (gatewayOrderId, gatewayPaymentId)
	)`

	for _, stmt := range []string{createCustomers, createProducts, createOrders, createConfirmations} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to create test table: %v", err)
		}
	}
}
