package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ovenworks/bakeplan/internal/order/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		customer TEXT NOT NULL,
		delivery_date DATE NOT NULL,
		items JSONB NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS outbox (
		id BIGSERIAL PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		type TEXT NOT NULL,
		payload JSONB NOT NULL,
		traceparent TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		relay_id TEXT,
		lease_until TIMESTAMPTZ,
		retry_count INT NOT NULL DEFAULT 0,
		last_error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return err
}

func (r *Repository) SaveWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, customer, delivery_date, items, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET customer=$2, delivery_date=$3, items=$4, status=$5, updated_at=$7`,
		o.ID, o.Customer, o.DeliveryDate, items, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ('order',$1,$2,$3,$4,'pending')`,
		o.ID, eventType, payload, traceparent)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	var (
		o     domain.Order
		items []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT id, customer, delivery_date, items, status, created_at, updated_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.Customer, &o.DeliveryDate, &items, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	o.Items, err = decodeItems(items)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// ListPending returns pending orders whose delivery date falls inside
// the window, both bounds inclusive. An order whose items payload does
// not decode is skipped and counted rather than failing the listing; one
// corrupt row must not take down the bake list.
func (r *Repository) ListPending(ctx context.Context, window domain.DateWindow) ([]domain.Order, int, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, customer, delivery_date, items, status, created_at, updated_at
		FROM orders
		WHERE status=$1 AND delivery_date >= $2 AND delivery_date <= $3
		ORDER BY delivery_date, created_at`,
		domain.StatusPending, window.From, window.To)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		orders  []domain.Order
		skipped int
	)
	for rows.Next() {
		var (
			o     domain.Order
			items []byte
		)
		if err := rows.Scan(&o.ID, &o.Customer, &o.DeliveryDate, &items, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		o.Items, err = decodeItems(items)
		if err != nil {
			skipped++
			r.log.Warn("order items undecodable, skipping", "order_id", o.ID, "err", err)
			continue
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, skipped, nil
}

// decodeItems accepts the two historical encodings of the items column:
// a JSON array of lines, or that same array JSON-encoded once more into
// a string.
func decodeItems(raw []byte) ([]domain.Line, error) {
	var lines []domain.Line
	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines, nil
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(encoded), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
