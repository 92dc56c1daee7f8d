package guard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"homeclean_backend/pkg/utils"
)

// releaseScript deletes the key only while it still holds our token, so a slot
// that expired and was re-acquired by someone else is left alone.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisGuard shares write slots between API replicas. Each slot expires after
// ttl so a crashed holder cannot wedge a record.
type RedisGuard struct {
	rdb      *redis.Client
	ttl      time.Duration
	prefix   string
	newToken func() string
}

func NewRedisGuard(rdb *redis.Client, ttl time.Duration, prefix string) *RedisGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "guard"
	}
	return &RedisGuard{rdb: rdb, ttl: ttl, prefix: prefix, newToken: uuid.NewString}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := g.prefix + ":" + key
	token := g.newToken()

	ok, err := g.rdb.SetNX(ctx, redisKey, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquiring write slot %s: %w", key, err)
	}
	if !ok {
		return nil, ErrBusy
	}

	return func() {
		// the request context may already be cancelled by now
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := g.rdb.Eval(releaseCtx, releaseScript, []string{redisKey}, token).Err(); err != nil {
			utils.LogWarn("Failed to release write slot", map[string]interface{}{"key": redisKey, "error": err.Error()})
		}
	}, nil
}
