package db

import (
	"embed"
	"fmt"
	"strings"

	"github.com/Rishad-007/BRUDF/internal/config"
	"gorm.io/gorm"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// EnsureSchema creates the members table and its index when missing.
// Every statement is IF NOT EXISTS, so existing rows are left untouched.
func EnsureSchema(gormDB *gorm.DB, driver string) error {
	statements, err := schemaStatements(driver)
	if err != nil {
		return err
	}

	for _, statement := range statements {
		if err := gormDB.Exec(statement).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}

func schemaStatements(driver string) ([]string, error) {
	var name string
	switch driver {
	case config.DriverSQLite:
		name = "schema/sqlite.sql"
	case config.DriverPostgres:
		name = "schema/postgres.sql"
	default:
		return nil, fmt.Errorf("no schema for driver %q", driver)
	}

	contents, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var statements []string
	for _, part := range strings.Split(string(contents), ";") {
		statement := strings.TrimSpace(part)
		if statement == "" {
			continue
		}
		statements = append(statements, statement)
	}

	return statements, nil
}
