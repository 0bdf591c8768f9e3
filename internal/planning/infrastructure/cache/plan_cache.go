package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	orderdom "github.com/ovenworks/bakeplan/internal/order/domain"
	"github.com/ovenworks/bakeplan/internal/planning/domain"
)

const genKey = "plan:gen"

// PlanCache keeps computed plans per window. Keys embed a generation
// counter; Invalidate bumps the counter, so every cached plan goes stale
// in one write instead of scanning for window keys.
type PlanCache struct {
	log *slog.Logger
	rdb *redis.Client
	ttl time.Duration
}

func NewPlanCache(log *slog.Logger, rdb *redis.Client, ttl time.Duration) *PlanCache {
	return &PlanCache{log: log, rdb: rdb, ttl: ttl}
}

func (c *PlanCache) Get(ctx context.Context, window orderdom.DateWindow) (domain.ProductionPlan, bool) {
	raw, err := c.rdb.Get(ctx, c.key(ctx, window)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("plan cache read failed", "err", err)
		}
		return domain.ProductionPlan{}, false
	}
	var plan domain.ProductionPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return domain.ProductionPlan{}, false
	}
	return plan, true
}

func (c *PlanCache) Put(ctx context.Context, window orderdom.DateWindow, plan domain.ProductionPlan) {
	raw, err := json.Marshal(plan)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(ctx, window), raw, c.ttl).Err(); err != nil {
		c.log.Warn("plan cache write failed", "err", err)
	}
}

// Invalidate marks all cached plans stale. Called when the order book
// changes.
func (c *PlanCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, genKey).Err()
}

func (c *PlanCache) key(ctx context.Context, window orderdom.DateWindow) string {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn("plan generation read failed", "err", err)
	}
	return fmt.Sprintf("plan:%d:%s:%s", gen,
		window.From.Format("2006-01-02"), window.To.Format("2006-01-02"))
}
