package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ovenworks/bakeplan/internal/catalog/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS recipes (
		product_id TEXT NOT NULL REFERENCES products(id),
		ingredient_id TEXT NOT NULL,
		qty_per_unit NUMERIC(12,4) NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (product_id, ingredient_id)
	)`)
	return err
}

// RecipeForProduct returns the ingredient lines for one unit of the
// product, in recipe order. No configured recipe reads as an empty
// slice, not an error.
func (r *Repository) RecipeForProduct(ctx context.Context, productID string) ([]domain.RecipeLine, error) {
	rows, err := r.pool.Query(ctx, `SELECT r.ingredient_id, i.name, i.unit, r.qty_per_unit
		FROM recipes r
		JOIN ingredients i ON i.id = r.ingredient_id
		WHERE r.product_id = $1
		ORDER BY r.position`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.RecipeLine{}
	for rows.Next() {
		var line domain.RecipeLine
		if err := rows.Scan(&line.IngredientID, &line.IngredientName, &line.Unit, &line.QtyPerUnit); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
