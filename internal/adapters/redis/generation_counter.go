package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// GenerationCounter tracks the latest login generation per subject so that
// overlapping login completions resolve last-writer-wins. Next allocates a
// monotonically increasing generation; Commit records it as current only if
// no later generation has been committed since.
type GenerationCounter struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewGenerationCounter creates a Redis-backed generation counter. Keys expire
// after ttl so abandoned login attempts do not accumulate.
func NewGenerationCounter(client redis.UniversalClient, ttl time.Duration) *GenerationCounter {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &GenerationCounter{
		client: client,
		prefix: "login_gen:",
		ttl:    ttl,
	}
}

func (c *GenerationCounter) Next(ctx context.Context, subject string) (int64, error) {
	key := c.prefix + "seq:" + subject
	gen, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	if expireErr := c.client.Expire(ctx, key, c.ttl).Err(); expireErr != nil {
		return 0, fmt.Errorf("redis expire: %w", expireErr)
	}
	return gen, nil
}

// commitScript stores the generation only when it is newer than the one
// already committed, returning 1 on success and 0 on a stale write.
var commitScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local gen = tonumber(ARGV[1])
if gen > cur then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
  return 1
end
return 0
`)

func (c *GenerationCounter) Commit(ctx context.Context, subject string, gen int64) (bool, error) {
	key := c.prefix + "cur:" + subject
	res, err := commitScript.Run(ctx, c.client, []string{key}, gen, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redis commit generation: %w", err)
	}
	return res == 1, nil
}
