package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ovenworks/bakeplan/internal/planning/application"
	"github.com/ovenworks/bakeplan/pkg/snapshot"
)

// Source layers a snapshot fallback over the database stock reads, same
// policy as the recipe resolver: remote first, snapshot only on remote
// failure and only within the TTL.
type Source struct {
	log    *slog.Logger
	remote application.StockSource
	store  snapshot.Store
	ttl    time.Duration
}

func NewSource(log *slog.Logger, remote application.StockSource, store snapshot.Store, ttl time.Duration) *Source {
	return &Source{log: log, remote: remote, store: store, ttl: ttl}
}

func (s *Source) OnHand(ctx context.Context, ingredientID string) (decimal.Decimal, error) {
	onHand, err := s.remote.OnHand(ctx, ingredientID)
	if err == nil {
		if serr := s.store.Set(ctx, key(ingredientID), []byte(onHand.String()), s.ttl); serr != nil {
			s.log.Warn("stock snapshot write failed", "ingredient_id", ingredientID, "err", serr)
		}
		return onHand, nil
	}

	raw, cerr := s.store.Get(ctx, key(ingredientID))
	if cerr != nil {
		return decimal.Zero, err
	}
	cached, perr := decimal.NewFromString(string(raw))
	if perr != nil {
		return decimal.Zero, err
	}
	s.log.Warn("serving stock from snapshot", "ingredient_id", ingredientID, "err", err)
	return cached, nil
}

func key(ingredientID string) string {
	return "stock:" + ingredientID
}
