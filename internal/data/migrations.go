package data

import (
	"context"
	"database/sql"

	"github.com/lovenote/lovenote-web/internal/migrate"
)

// RunMigrations brings the catalog and permission schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}

// MigrationStatus lists the embedded migrations with their applied state.
func MigrationStatus(ctx context.Context, db *sql.DB) ([]migrate.Status, error) {
	return migrate.List(ctx, db)
}
