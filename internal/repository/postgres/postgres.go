// Package postgres stores swim logs in PostgreSQL through a pgx pool. It is
// the backend for teams running on a hosted Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/repository"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, log logger.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Errorf("failed to ping postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: log}, nil
}

func (p *PostgresStorage) Close() {
	p.pool.Close()
}

// Store returns every repository backed by this pool.
func (p *PostgresStorage) Store() repository.Store {
	return repository.Store{
		Profiles:   &profileRepo{p},
		Training:   &trainingRepo{p},
		RHR:        &rhrRepo{p},
		Body:       &bodyRepo{p},
		Comments:   &commentRepo{p},
		Plans:      &planRepo{p},
		Goals:      &goalRepo{p},
		Settings:   &settingsRepo{p},
		MagicLinks: &magicLinkRepo{p},
		Exports:    &exportRepo{p},
	}
}

// Migrate creates missing tables and indexes.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			p.logger.Errorf("migration failed: %v", err)
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// notFound maps pgx.ErrNoRows to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// dateRange appends inclusive bounds on col to a WHERE clause.
func dateRange(where []string, args []any, col string, r repository.DateRange) ([]string, []any) {
	if r.From != "" {
		args = append(args, r.From)
		where = append(where, fmt.Sprintf("%s >= $%d::date", col, len(args)))
	}
	if r.To != "" {
		args = append(args, r.To)
		where = append(where, fmt.Sprintf("%s <= $%d::date", col, len(args)))
	}
	return where, args
}

func and(where []string) string {
	return strings.Join(where, " AND ")
}
