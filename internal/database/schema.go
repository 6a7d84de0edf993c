package database

import (
	"fmt"

	"go.uber.org/zap"
)

// Esquema de la base de datos. Aditivo: cada sentencia es idempotente,
// las colecciones nuevas aparecen sin migración destructiva.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS branches (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		branch_id     TEXT REFERENCES branches(id),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_name_lower_idx ON users (LOWER(name))`,
	`CREATE TABLE IF NOT EXISTS items (
		id          TEXT NOT NULL,
		branch_id   TEXT NOT NULL REFERENCES branches(id),
		name_en     TEXT NOT NULL,
		name_ar     TEXT NOT NULL DEFAULT '',
		min_qty     INTEGER NOT NULL DEFAULT 0,
		base_qty    INTEGER NOT NULL DEFAULT 0 CHECK (base_qty >= 0),
		unit_cost   DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (id, branch_id)
	)`,
	`CREATE TABLE IF NOT EXISTS movements (
		id          TEXT PRIMARY KEY,
		item_id     TEXT NOT NULL,
		branch_id   TEXT NOT NULL,
		type        TEXT NOT NULL CHECK (type IN ('IN', 'OUT')),
		qty         INTEGER NOT NULL CHECK (qty > 0),
		user_id     TEXT NOT NULL,
		note        TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS movements_branch_idx ON movements (branch_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS requests (
		id                 TEXT PRIMARY KEY,
		item_id            TEXT NOT NULL,
		qty                INTEGER NOT NULL CHECK (qty > 0),
		from_branch_id     TEXT NOT NULL,
		to_branch_id       TEXT NOT NULL,
		created_by         TEXT NOT NULL,
		note               TEXT NOT NULL DEFAULT '',
		priority           TEXT NOT NULL DEFAULT 'normal',
		urgent_note        TEXT NOT NULL DEFAULT '',
		image              TEXT NOT NULL DEFAULT '',
		status             TEXT NOT NULL DEFAULT 'pending',
		driver_id          TEXT,
		assigned_at        TIMESTAMPTZ,
		assigned_by        TEXT,
		delivery_eta       TIMESTAMPTZ,
		delivery_eta_label TEXT,
		delivered_at       TIMESTAMPTZ,
		received_by        TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS requests_status_idx ON requests (status, created_at)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id          TEXT PRIMARY KEY,
		branch_id   TEXT NOT NULL REFERENCES branches(id),
		month       TEXT NOT NULL,
		planned     DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		plate       TEXT NOT NULL,
		branch_id   TEXT REFERENCES branches(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema crea las tablas que falten al arrancar.
func (p *PostgresDB) EnsureSchema(logger *zap.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := p.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	logger.Info("Database schema ensured", zap.Int("statements", len(schemaStatements)))
	return nil
}
