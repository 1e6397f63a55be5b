package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

var propertySchema = map[string]string{
	"mysql": `CREATE TABLE IF NOT EXISTS properties (
	property_id VARCHAR(36) NOT NULL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	price DECIMAL(10,2) NOT NULL,
	location VARCHAR(255) NOT NULL,
	created_at DATETIME(6) NOT NULL
)`,
	"pgx": `CREATE TABLE IF NOT EXISTS properties (
	property_id VARCHAR(36) PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	price NUMERIC(10,2) NOT NULL,
	location VARCHAR(255) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`,
	"sqlite": `CREATE TABLE IF NOT EXISTS properties (
	property_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	price NUMERIC(10,2) NOT NULL,
	location TEXT NOT NULL,
	created_at DATETIME NOT NULL
)`,
}

// EnsureSchema creates the properties table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	ddl, ok := propertySchema[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create properties table: %w", err)
	}
	return nil
}
