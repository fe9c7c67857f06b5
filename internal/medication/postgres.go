package medication

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS vitalcalc_kv (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps state as JSON documents in a key/value table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, pings and creates the table if needed.
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Load(ctx context.Context) (State, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT key, value::text FROM vitalcalc_kv WHERE key = ANY($1)`,
		[]string{KeyMedications, KeyLogs})
	if err != nil {
		return State{}, fmt.Errorf("query state: %w", err)
	}
	defer rows.Close()
	docs := make(map[string]string, 2)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return State{}, fmt.Errorf("scan state: %w", err)
		}
		docs[k] = v
	}
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("read state: %w", err)
	}
	return decodeState(docs)
}

func (p *PostgresStore) Save(ctx context.Context, s State) error {
	docs, err := encodeState(s)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for k, v := range docs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO vitalcalc_kv (key, value, updated_at) VALUES ($1, $2::jsonb, now())
				 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
				k, v); err != nil {
				return fmt.Errorf("save %s: %w", k, err)
			}
		}
		return nil
	})
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) Close() {
	p.pool.Close()
}
