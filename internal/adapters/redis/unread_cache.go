package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultUnreadCountTTL bounds staleness when an invalidation is lost.
const DefaultUnreadCountTTL = 5 * time.Minute

// UnreadCountCache caches per-account unread notification counts so the
// badge rendered on every portal page does not hit Postgres per request.
// Feed writes invalidate the entry; the TTL covers lost invalidations.
type UnreadCountCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewUnreadCountCache creates an unread-count cache. A non-positive TTL
// falls back to DefaultUnreadCountTTL.
func NewUnreadCountCache(client redis.UniversalClient, ttl time.Duration) *UnreadCountCache {
	if ttl <= 0 {
		ttl = DefaultUnreadCountTTL
	}
	return &UnreadCountCache{
		client: client,
		prefix: "notify:unread:",
		ttl:    ttl,
	}
}

// GetUnreadCount returns the cached count and whether an entry was present.
func (c *UnreadCountCache) GetUnreadCount(ctx context.Context, accountID string) (int, bool, error) {
	if accountID == "" {
		return 0, false, errors.New("account ID cannot be empty")
	}

	data, err := c.client.Get(ctx, c.prefix+accountID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis get: %w", err)
	}

	count, err := strconv.Atoi(data)
	if err != nil || count < 0 {
		// Corrupted entry reads as a miss and is dropped.
		if delErr := c.InvalidateUnreadCount(ctx, accountID); delErr != nil {
			return 0, false, fmt.Errorf("cleanup corrupt count: %w", delErr)
		}
		return 0, false, nil
	}

	return count, true, nil
}

// SetUnreadCount stores the count for the account with the cache TTL.
func (c *UnreadCountCache) SetUnreadCount(ctx context.Context, accountID string, count int) error {
	if accountID == "" {
		return errors.New("account ID cannot be empty")
	}
	return c.client.Set(ctx, c.prefix+accountID, strconv.Itoa(count), c.ttl).Err()
}

// InvalidateUnreadCount drops the cached count for the account.
func (c *UnreadCountCache) InvalidateUnreadCount(ctx context.Context, accountID string) error {
	if accountID == "" {
		return nil // Nothing to invalidate
	}
	return c.client.Del(ctx, c.prefix+accountID).Err()
}
