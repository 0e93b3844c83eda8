package probe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresIntrospector implements SchemaIntrospector over a pgx pool.
type PostgresIntrospector struct {
	pool *pgxpool.Pool
}

// NewPostgresIntrospector connects a pool and verifies the connection.
func NewPostgresIntrospector(ctx context.Context, dsn string) (*PostgresIntrospector, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &PostgresIntrospector{pool: pool}, nil
}

// TableExists reports whether the named table exists in the public schema.
func (p *PostgresIntrospector) TableExists(ctx context.Context, table string) (bool, error) {
	var count int
	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_name = $1`, table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("table existence query for %q: %w", table, err)
	}
	return count > 0, nil
}

// IndexCount returns the number of indexes on the named table.
func (p *PostgresIntrospector) IndexCount(ctx context.Context, table string) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM pg_indexes
		 WHERE schemaname = 'public' AND tablename = $1`, table).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("index count query for %q: %w", table, err)
	}
	return count, nil
}

// Ping verifies the pool can still reach the database.
func (p *PostgresIntrospector) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close releases the underlying pool.
func (p *PostgresIntrospector) Close() {
	p.pool.Close()
}
