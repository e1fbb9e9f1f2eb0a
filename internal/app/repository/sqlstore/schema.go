package sqlstore

import (
	"context"
	"fmt"

	"chilaquiles/internal/app/config"
)

// DDL совместим со схемой, которую строит gorm AutoMigrate
var schemas = map[string][]string{
	config.DialectMySQL: {
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			full_name VARCHAR(100) NOT NULL,
			username VARCHAR(50) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			UNIQUE KEY idx_users_username (username)
		) DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS chilaquiles (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			salsa_type VARCHAR(50) NOT NULL,
			protein VARCHAR(50) NOT NULL,
			spiciness INT NOT NULL DEFAULT 0,
			price DECIMAL(10,2) NOT NULL DEFAULT 0,
			created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			image_key VARCHAR(255) NULL,
			KEY idx_chilaquiles_salsa_type (salsa_type),
			KEY idx_chilaquiles_protein (protein)
		) DEFAULT CHARSET=utf8mb4`,
	},
	config.DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			full_name VARCHAR(100) NOT NULL,
			username VARCHAR(50) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (username)`,
		`CREATE TABLE IF NOT EXISTS chilaquiles (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			salsa_type VARCHAR(50) NOT NULL,
			protein VARCHAR(50) NOT NULL,
			spiciness INTEGER NOT NULL DEFAULT 0,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			image_key VARCHAR(255)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chilaquiles_salsa_type ON chilaquiles (salsa_type)`,
		`CREATE INDEX IF NOT EXISTS idx_chilaquiles_protein ON chilaquiles (protein)`,
	},
	config.DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name TEXT NOT NULL,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT 1
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (username)`,
		`CREATE TABLE IF NOT EXISTS chilaquiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			salsa_type TEXT NOT NULL,
			protein TEXT NOT NULL,
			spiciness INTEGER NOT NULL DEFAULT 0,
			price NUMERIC NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			image_key TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chilaquiles_salsa_type ON chilaquiles (salsa_type)`,
		`CREATE INDEX IF NOT EXISTS idx_chilaquiles_protein ON chilaquiles (protein)`,
	},
}

// Migrate создаёт таблицы, если их ещё нет
func (s *Store) Migrate(ctx context.Context) error {
	stmts, ok := schemas[s.dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", s.dialect)
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}
