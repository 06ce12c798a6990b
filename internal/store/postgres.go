package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// PostgresKV keeps the same string-to-string collection layout as the file
// backend, one row per key, with the version column carrying the CAS counter.
// It exists for deployments where several API processes share one store.
type PostgresKV struct {
	db *sqlx.DB
}

const kvSchema = `
CREATE TABLE IF NOT EXISTS clinic_kv (
	key     TEXT PRIMARY KEY,
	value   TEXT NOT NULL,
	version BIGINT NOT NULL
)`

func NewPostgresKV(cfg PostgresConfig) (*PostgresKV, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure kv schema: %w", err)
	}

	return &PostgresKV{db: db}, nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) (string, int64, error) {
	var row struct {
		Value   string `db:"value"`
		Version int64  `db:"version"`
	}
	err := p.db.GetContext(ctx, &row, `SELECT value, version FROM clinic_kv WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return row.Value, row.Version, nil
}

func (p *PostgresKV) Put(ctx context.Context, key, value string, version int64) (int64, error) {
	next := version + 1

	if version == 0 {
		// First write for this key. A concurrent first writer loses on the
		// primary key and is reported as a version conflict.
		_, err := p.db.ExecContext(ctx,
			`INSERT INTO clinic_kv (key, value, version) VALUES ($1, $2, $3)
			 ON CONFLICT (key) DO NOTHING`,
			key, value, next,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert key %s: %w", key, err)
		}
		var stored int64
		if err := p.db.GetContext(ctx, &stored, `SELECT version FROM clinic_kv WHERE key = $1`, key); err != nil {
			return 0, fmt.Errorf("failed to read back key %s: %w", key, err)
		}
		if stored != next {
			return 0, ErrVersionConflict
		}
		return next, nil
	}

	result, err := p.db.ExecContext(ctx,
		`UPDATE clinic_kv SET value = $1, version = $2 WHERE key = $3 AND version = $4`,
		value, next, key, version,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update key %s: %w", key, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return 0, ErrVersionConflict
	}
	return next, nil
}

func (p *PostgresKV) Close() error {
	return p.db.Close()
}
