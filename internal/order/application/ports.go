package application

import (
	"context"

	"github.com/ovenworks/bakeplan/internal/order/domain"
)

type OrderRepository interface {
	// SaveWithOutbox persists the order and an outbox event in one
	// transaction.
	SaveWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error
	Get(ctx context.Context, id string) (domain.Order, error)
	ListPending(ctx context.Context, window domain.DateWindow) ([]domain.Order, int, error)
}
