package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS couriers (
		id            BIGSERIAL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		phone         VARCHAR(32),
		email         VARCHAR(255),
		level         SMALLINT NOT NULL CHECK (level BETWEEN 1 AND 5),
		status        TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
		registered_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT couriers_phone_unique UNIQUE (phone)
	)`,
	`CREATE INDEX IF NOT EXISTS couriers_name_index ON couriers (name)`,
	`CREATE INDEX IF NOT EXISTS couriers_level_index ON couriers (level)`,
	`CREATE INDEX IF NOT EXISTS couriers_status_index ON couriers (status)`,
	`CREATE INDEX IF NOT EXISTS couriers_registered_at_index ON couriers (registered_at)`,
}

// EnsureSchema creates the couriers table and its indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
