package postgres

import (
	"context"
	"fmt"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/events"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/faces"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schedules"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Accounts() accounts.Repository {
	return &AccountRepository{pool: r.pool, tx: r.tx, store: r}
}

func (r *Repository) Events() events.Repository {
	return &EventRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Schools() schools.Repository {
	return &SchoolRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Faces() faces.Repository {
	return &FaceRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Schedules() schedules.Repository {
	return &ScheduleRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, storage.Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &Repository{pool: r.pool, tx: tx}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type AccountRepository struct {
	pool  *pgxpool.Pool
	tx    pgx.Tx
	store *Repository
}

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type SchoolRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type FaceRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type ScheduleRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
