package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS ingredients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		unit TEXT NOT NULL,
		on_hand NUMERIC(12,4) NOT NULL DEFAULT 0
	)`)
	return err
}

// OnHand returns the current stock for an ingredient. An ingredient with
// no row simply has nothing on hand.
func (r *Repository) OnHand(ctx context.Context, ingredientID string) (decimal.Decimal, error) {
	var onHand decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT on_hand FROM ingredients WHERE id=$1`, ingredientID).Scan(&onHand)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return onHand, nil
}
