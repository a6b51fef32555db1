package database

import (
	"database/sql"
	"fmt"
)

// The snapshot table holds exactly one row: the JSON-serialized attendance
// state, replaced wholesale on every mutation.
const snapshotSchema = `
	CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		state TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
`

// EnsureSchema creates the snapshot table if it does not exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(snapshotSchema); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return nil
}

// SchemaValidator provides database schema validation functionality.
type SchemaValidator struct {
	db *sql.DB
}

// NewSchemaValidator creates a new schema validator.
func NewSchemaValidator(db *sql.DB) *SchemaValidator {
	return &SchemaValidator{db: db}
}

// ValidateTablesExist verifies that all required tables exist.
func (v *SchemaValidator) ValidateTablesExist() error {
	exists, err := v.tableExists("snapshot")
	if err != nil {
		return fmt.Errorf("error checking snapshot table: %w", err)
	}
	if !exists {
		return fmt.Errorf("required table snapshot does not exist")
	}
	return nil
}

// ValidateTableStructure verifies the snapshot table columns match
// expectations.
func (v *SchemaValidator) ValidateTableStructure() error {
	expected := map[string]string{
		"id":         "INTEGER",
		"state":      "TEXT",
		"updated_at": "DATETIME",
	}

	rows, err := v.db.Query("PRAGMA table_info(snapshot)")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	found := make(map[string]string)
	for rows.Next() {
		var cid int
		var name, dataType string
		var notNull int
		var defaultValue interface{}
		var pk int

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return err
		}
		found[name] = dataType
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for column, expectedType := range expected {
		foundType, ok := found[column]
		if !ok {
			return fmt.Errorf("column %s not found", column)
		}
		if foundType != expectedType {
			return fmt.Errorf("column %s has type %s, expected %s", column, foundType, expectedType)
		}
	}
	return nil
}

// tableExists checks if a table exists in the database.
func (v *SchemaValidator) tableExists(tableName string) (bool, error) {
	var count int
	err := v.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
		tableName,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
