package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// New connects to Redis and verifies the connection with a ping. Carts
// live here, so a dead Redis at boot should fail fast instead of
// surfacing as degraded empty carts later.
func New(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
