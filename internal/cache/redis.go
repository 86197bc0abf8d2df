// Package cache wraps the optional redis connection. The application
// degrades gracefully when redis is not configured.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects and verifies the redis instance is reachable
func OpenRedis(addr, password string) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}
