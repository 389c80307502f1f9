package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultFlagPrefix namespaces tab flag hashes.
const DefaultFlagPrefix = "lovenote:tab:"

// FlagStore keeps per-tab flags in one Redis hash per tab. Every write
// refreshes the hash TTL so a tab left open keeps its flags.
type FlagStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// FlagStoreOptions configures NewFlagStore.
type FlagStoreOptions struct {
	Prefix string
	TTL    time.Duration // default 12h
}

// NewFlagStore creates a Redis-backed tab flag store.
func NewFlagStore(client redis.UniversalClient, opts FlagStoreOptions) *FlagStore {
	if opts.Prefix == "" {
		opts.Prefix = DefaultFlagPrefix
	}
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	return &FlagStore{client: client, prefix: opts.Prefix, ttl: opts.TTL}
}

func (f *FlagStore) key(tabID string) string { return f.prefix + tabID }

// Get returns the flag value and whether it was set.
func (f *FlagStore) Get(ctx context.Context, tabID, name string) (string, bool, error) {
	if tabID == "" {
		return "", false, nil
	}
	v, err := f.client.HGet(ctx, f.key(tabID), name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget flag: %w", err)
	}
	return v, true, nil
}

// Set stores the flag and refreshes the tab TTL atomically.
func (f *FlagStore) Set(ctx context.Context, tabID, name, value string) error {
	if tabID == "" {
		return errors.New("tab ID cannot be empty")
	}
	key := f.key(tabID)
	_, err := f.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, name, value)
		p.Expire(ctx, key, f.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset flag: %w", err)
	}
	return nil
}

// Delete clears the flag. Clearing an absent flag is not an error.
func (f *FlagStore) Delete(ctx context.Context, tabID, name string) error {
	if tabID == "" {
		return nil
	}
	if err := f.client.HDel(ctx, f.key(tabID), name).Err(); err != nil {
		return fmt.Errorf("redis hdel flag: %w", err)
	}
	return nil
}
