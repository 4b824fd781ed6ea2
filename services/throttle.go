package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Throttle rate-limits OTP resends per phone using Redis SETNX with a
// TTL window. Nil client means throttling is disabled; Allow then
// always says yes.
type Throttle struct {
	client *redis.Client
	window time.Duration
}

func NewThrottle(client *redis.Client, window time.Duration) *Throttle {
	if client == nil {
		return nil
	}
	return &Throttle{client: client, window: window}
}

func (t *Throttle) Allow(ctx context.Context, phone string) bool {
	key := fmt.Sprintf("otp:last:%s", phone)
	ok, err := t.client.SetNX(ctx, key, "1", t.window).Result()
	if err != nil {
		// Redis trouble must not take OTP issuance down with it.
		log.Printf("[OTP] throttle check failed, allowing request: %v", err)
		return true
	}
	return ok
}
