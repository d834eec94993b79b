package db

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed sql/0001_schema.sql
var schemaSQL string

// Migrate applies the schema. Statements are idempotent (IF NOT EXISTS), so
// running it on every startup is safe.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
