package catalog

import (
	"context"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second

	driverName = "pgx"
)

// Source supplies the products the registry starts with.
type Source interface {
	Ping(ctx context.Context) error
	ListSortedByID(ctx context.Context) ([]*Product, error)
}

type PostgresSource struct {
	db *sqlx.DB
}

func NewPostgresSource(db *sqlx.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresSource, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	s := NewPostgresSource(db)
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return s, nil
}

func (s *PostgresSource) Close() error { return s.db.Close() }

func (s *PostgresSource) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresSource) ListSortedByID(ctx context.Context) ([]*Product, error) {
	var out []*Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.SelectContext(ctx, &out, `
			SELECT id, name, price, stock
			FROM products
			ORDER BY id ASC
		`)
	})
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
