// Package database wires up the scheduler's PostgreSQL schema.
package database

import (
	"database/sql"
	"fmt"

	"github.com/pyrex41/o-email-schedule/internal/database/schema"
)

// InitializeDatabase creates all tables the scheduler needs if they
// don't already exist.
func InitializeDatabase(db *sql.DB) error {
	for _, query := range schema.TableDefinitions {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// CleanDatabase drops all scheduler tables, in reverse creation order
// to satisfy dependencies. Intended for test fixtures only.
func CleanDatabase(db *sql.DB) error {
	for i := len(schema.TableNames) - 1; i >= 0; i-- {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", schema.TableNames[i])
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", schema.TableNames[i], err)
		}
	}
	return nil
}
