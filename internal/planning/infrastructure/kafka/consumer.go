package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ovenworks/bakeplan/internal/planning/infrastructure/cache"
	"github.com/ovenworks/bakeplan/pkg/idempotency"
	"github.com/ovenworks/bakeplan/pkg/tracing"
)

// Consumer watches the order events topic and invalidates cached plans
// whenever the order book changes. Offsets already seen (tracked in
// redis) are committed without a second invalidation.
type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	plans  *cache.PlanCache
	idem   *idempotency.Store
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, plans *cache.PlanCache, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		plans:  plans,
		idem:   idem,
		tracer: otel.Tracer("planning-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
		seen, err := c.idem.Seen(ctx, key)
		if err != nil {
			c.log.Error("idempotency check failed", "err", err)
			continue
		}
		if seen {
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "ConsumeOrderEvent")

		var ev struct {
			OrderID string `json:"order_id"`
		}
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.log.Error("unmarshal order event failed", "err", err)
			span.End()
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if err := c.plans.Invalidate(msgCtx); err != nil {
			c.log.Error("plan invalidation failed", "order_id", ev.OrderID, "err", err)
		} else {
			c.log.Info("plans invalidated", "order_id", ev.OrderID)
		}
		span.End()
		_ = c.reader.CommitMessages(ctx, msg)
	}
}
