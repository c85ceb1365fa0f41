package database

import (
	"context"
	"log"

	config "github.com/dgotpservice/dg-social-panel/configs"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis is optional: without it, order placement still works but
// Idempotency-Key headers are not enforced.
func ConnectRedis() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️ REDIS_ADDR not set, idempotency keys disabled")
		return
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
	})

	if err := Redis.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("🔥 Failed to connect to redis: %v", err)
	}

	log.Println("✅ Redis connected successfully")
}
