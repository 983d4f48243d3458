package mysql

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"

	"radagast/internal/config"
)

func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// IsDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (1062). The identity resolver and the payment-confirmation guard both
// treat it as "already exists, re-read".
func IsDuplicateKey(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

// DuplicateKeyName extracts the index name from a duplicate-entry error,
// e.g. "Duplicate entry 'janedoe' for key 'Customers.uq_customers_handle'"
// yields "Customers.uq_customers_handle". Empty when err is not a 1062 or
// the message has an unexpected shape.
func DuplicateKeyName(err error) string {
	var mysqlErr *mysqldriver.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return ""
	}

	const marker = "for key '"
	i := strings.LastIndex(mysqlErr.Message, marker)
	if i < 0 {
		return ""
	}
	rest := mysqlErr.Message[i+len(marker):]
	j := strings.IndexByte(rest, '\'')
	if j < 0 {
		return ""
	}
	return rest[:j]
}
