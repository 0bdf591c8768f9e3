package cache

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ovenworks/bakeplan/pkg/snapshot"
)

type mapStore struct {
	data map[string][]byte
}

func newMapStore() *mapStore {
	return &mapStore{data: make(map[string][]byte)}
}

func (s *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, snapshot.ErrMiss
	}
	return v, nil
}

func (s *mapStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.data[key] = value
	return nil
}

type scriptedStock struct {
	onHand decimal.Decimal
	err    error
}

func (s *scriptedStock) OnHand(context.Context, string) (decimal.Decimal, error) {
	return s.onHand, s.err
}

func TestSourceFallsBackToSnapshot(t *testing.T) {
	remote := &scriptedStock{onHand: decimal.RequireFromString("2.5")}
	store := newMapStore()
	src := NewSource(slog.New(slog.DiscardHandler), remote, store, time.Hour)

	got, err := src.OnHand(context.Background(), "i-flour")
	if err != nil {
		t.Fatalf("warm read: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("on hand = %s, want 2.5", got)
	}

	remote.err = errors.New("db down")
	got, err = src.OnHand(context.Background(), "i-flour")
	if err != nil {
		t.Fatalf("fallback read: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("fallback on hand = %s, want snapshot value", got)
	}
}

func TestSourceColdFailurePropagates(t *testing.T) {
	remote := &scriptedStock{err: errors.New("db down")}
	src := NewSource(slog.New(slog.DiscardHandler), remote, newMapStore(), time.Hour)

	if _, err := src.OnHand(context.Background(), "i-yeast"); err == nil {
		t.Fatal("want remote error when no snapshot exists")
	}
}
