package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog/log"
)

// SetupDatabase opens the in-memory database and creates the schema.
// A single connection serializes every read and write, so each request's
// mutations are atomic with respect to other requests, and the shared
// in-memory database stays alive for as long as the pool exists.
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create users table. Note: no token_balance column; balances are
	// derived from the token_transactions ledger.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			full_name TEXT NOT NULL,
			neighborhood TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create events table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			event_date TIMESTAMP NOT NULL,
			category TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			capacity INTEGER NOT NULL DEFAULT 0,
			tokens_reward INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create event_registrations table. The unique constraint rejects
	// duplicate registrations, which would otherwise award a second
	// token reward for the same event.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS event_registrations (
			id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL REFERENCES events(id),
			user_id TEXT NOT NULL REFERENCES users(id),
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (event_id, user_id)
		)
	`)
	if err != nil {
		return err
	}

	// Create token_transactions table (append-only ledger)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS token_transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			amount INTEGER NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL,
			reference_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create community_posts table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS community_posts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT NOT NULL,
			author_user_id TEXT NOT NULL REFERENCES users(id),
			author_display_name TEXT NOT NULL,
			visibility_mode TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			likes_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create participation_logs table (write-only audit trail)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS participation_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			action_type TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_user ON token_transactions(user_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_events_date ON events(event_date)",
		"CREATE INDEX IF NOT EXISTS idx_posts_created ON community_posts(created_at)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create index")
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
