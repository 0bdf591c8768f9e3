package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ovenworks/bakeplan/internal/catalog/domain"
	"github.com/ovenworks/bakeplan/internal/planning/application"
	"github.com/ovenworks/bakeplan/pkg/snapshot"
)

// Resolver is the two-tier recipe read path: the database first, and on
// database failure the last snapshot taken of that recipe, provided it
// is still inside the staleness budget. Every successful remote read
// refreshes the snapshot.
type Resolver struct {
	log    *slog.Logger
	remote application.RecipeResolver
	store  snapshot.Store
	ttl    time.Duration
}

func NewResolver(log *slog.Logger, remote application.RecipeResolver, store snapshot.Store, ttl time.Duration) *Resolver {
	return &Resolver{log: log, remote: remote, store: store, ttl: ttl}
}

func (r *Resolver) RecipeForProduct(ctx context.Context, productID string) ([]domain.RecipeLine, error) {
	lines, err := r.remote.RecipeForProduct(ctx, productID)
	if err == nil {
		if raw, merr := json.Marshal(lines); merr == nil {
			if serr := r.store.Set(ctx, key(productID), raw, r.ttl); serr != nil {
				r.log.Warn("recipe snapshot write failed", "product_id", productID, "err", serr)
			}
		}
		return lines, nil
	}

	raw, cerr := r.store.Get(ctx, key(productID))
	if cerr != nil {
		return nil, err
	}
	var cached []domain.RecipeLine
	if uerr := json.Unmarshal(raw, &cached); uerr != nil {
		return nil, err
	}
	r.log.Warn("serving recipe from snapshot", "product_id", productID, "err", err)
	return cached, nil
}

func key(productID string) string {
	return "recipe:" + productID
}
