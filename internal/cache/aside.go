package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quorum/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: return the cached JSON value for
// key if present, otherwise run fetch (which must populate dest), then store
// dest under key with the given TTL. All cache failures degrade to a plain
// fetch; only fetch errors propagate.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Result()
		if err == nil {
			if unmarshalErr := json.Unmarshal([]byte(raw), dest); unmarshalErr == nil {
				return nil
			}
			// Corrupt entry; drop it and fall through to fetch.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			middleware.Logger.WarnContext(ctx, "cache read failed", "key", key, "error", err.Error())
		}
	}

	if err := fetch(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			if setErr := client.Set(ctx, key, raw, ttl).Err(); setErr != nil {
				middleware.Logger.WarnContext(ctx, "cache write failed", "key", key, "error", setErr.Error())
			}
		}
	}

	return nil
}
