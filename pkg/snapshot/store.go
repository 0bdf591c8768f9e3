package snapshot

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when no snapshot exists for a key (or the one that
// did has aged out).
var ErrMiss = errors.New("snapshot miss")

// Store is a keyed snapshot of the last good read from the system of
// record, used as a fallback when the remote read fails. Entries expire
// after their TTL; serving anything older is worse than failing.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
