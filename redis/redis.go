package redis

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// InitRedis connects the optional Redis used for OTP request throttling.
// The app runs fine without it; throttling is simply skipped.
func InitRedis(addr string) {
	if addr == "" {
		log.Println("REDIS_ADDR not set, OTP request throttling disabled")
		return
	}

	Client = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	if _, err := Client.Ping(Ctx).Result(); err != nil {
		log.Printf("Failed to connect to Redis, throttling disabled: %v", err)
		Client = nil
		return
	}
	log.Println("✅ Connected to Redis")
}
