// Package session keeps per-conversation honeypot state alive across
// turns, serializing concurrent access to the same conversation.
package session

import (
	"context"
	"time"
)

// Store persists serialized session state. Get returns (nil, nil)
// when the key does not exist.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}
