package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var DB *pgxpool.Pool

// Connect initializes the connection pool
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, errors.New("POSTGRES_URL is not set")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	// Try pinging to make sure it's valid
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	DB = pool

	return pool, nil
}

// ClosePool is for graceful shutdown
func ClosePool() {
	if DB != nil {
		DB.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS pokemon_cards (
	id         SERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	"set"      TEXT NOT NULL,
	"number"   TEXT,
	rarity     TEXT NOT NULL,
	"condition" TEXT NOT NULL,
	"value"    NUMERIC(10, 2) DEFAULT 0.00,
	notes      TEXT,
	image_url  TEXT,
	created_at TIMESTAMP DEFAULT now()
);

CREATE INDEX IF NOT EXISTS pokemon_cards_created_at_idx ON pokemon_cards (created_at DESC);
`

// Migrate creates the pokemon_cards table when it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	log.Info("running migrations ...")
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate pokemon_cards: %w", err)
	}
	log.Info("migrations completed")
	return nil
}
