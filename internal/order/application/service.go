package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ovenworks/bakeplan/internal/order/domain"
)

type Service struct {
	log  *slog.Logger
	repo OrderRepository
}

func NewService(log *slog.Logger, repo OrderRepository) *Service {
	return &Service{log: log, repo: repo}
}

// CreateOrder validates and persists a new order, queuing an
// OrderCreated event through the outbox so downstream consumers (the
// plan cache invalidator) hear about it exactly when the row commits.
func (s *Service) CreateOrder(ctx context.Context, customer string, deliveryDate time.Time, items []domain.Line, traceparent string) (domain.Order, error) {
	o, err := domain.NewOrder(customer, deliveryDate, items)
	if err != nil {
		return domain.Order{}, err
	}

	event := domain.OrderCreated{
		OrderID:      o.ID,
		Customer:     o.Customer,
		DeliveryDate: o.DeliveryDate,
		Items:        o.Items,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return domain.Order{}, fmt.Errorf("marshal order event: %w", err)
	}

	if err := s.repo.SaveWithOutbox(ctx, o, "OrderCreated", payload, traceparent); err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order created", "order_id", o.ID, "units", o.TotalUnits())
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}
