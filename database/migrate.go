package database

import (
	"context"
	"fmt"

	"fileshare/database/migrations"

	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded versioned migrations to the current
// database. It replaces any runtime schema patching: the schema is only ever
// changed here, once, at startup.
func RunMigrations(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database is not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to obtain sql.DB handle: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return err
	}

	return goose.UpContext(ctx, sqlDB, ".")
}
