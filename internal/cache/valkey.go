package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

// DialValkey connects to a Valkey (or Redis-compatible) server.
func DialValkey(addr string) (valkey.Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to valkey at %s: %w", addr, err)
	}
	return client, nil
}

// Valkey stores JSON-encoded values in a shared Valkey instance so several
// service replicas can reuse each other's lookups.
type Valkey[V any] struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

// NewValkey namespaces all keys under prefix. A ttl of zero or less stores
// keys without expiry.
func NewValkey[V any](client valkey.Client, prefix string, ttl time.Duration, logger *slog.Logger) *Valkey[V] {
	return &Valkey[V]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    logger,
	}
}

func (v *Valkey[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	cmd := v.client.Do(ctx, v.client.B().Get().Key(v.prefix+key).Build())
	b, err := cmd.AsBytes()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			v.log.Warn("valkey get failed", "key", v.prefix+key, "error", err)
		}
		return zero, false
	}

	var out V
	if err := json.Unmarshal(b, &out); err != nil {
		v.log.Warn("valkey value is not valid JSON", "key", v.prefix+key, "error", err)
		return zero, false
	}
	return out, true
}

func (v *Valkey[V]) Put(ctx context.Context, key string, value V) {
	b, err := json.Marshal(value)
	if err != nil {
		v.log.Warn("error marshaling cache value", "key", v.prefix+key, "error", err)
		return
	}

	var cmd valkey.Completed
	if v.ttl > 0 {
		cmd = v.client.B().Set().Key(v.prefix + key).Value(valkey.BinaryString(b)).Ex(v.ttl).Build()
	} else {
		cmd = v.client.B().Set().Key(v.prefix + key).Value(valkey.BinaryString(b)).Build()
	}

	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		v.log.Warn("valkey set failed", "key", v.prefix+key, "error", err)
	}
}
