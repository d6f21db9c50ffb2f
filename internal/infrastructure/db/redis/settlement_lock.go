package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

const defaultLockTTL = 30 * time.Second

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock re-acquired by another request is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SettlementLock serialises settlements per payer using SET NX with a TTL.
// Key format: settle:<email>
type SettlementLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSettlementLock creates a SettlementLock. If ttl <= 0, defaultLockTTL is used.
func NewSettlementLock(client *redis.Client, ttl time.Duration) *SettlementLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &SettlementLock{client: client, ttl: ttl}
}

// Acquire takes the payer's lock. It returns domain.ErrSettlementInProgress when
// another settlement for the same payer holds it.
func (l *SettlementLock) Acquire(ctx context.Context, email string) (func(context.Context) error, error) {
	key := l.key(email)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("settlement lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrSettlementInProgress
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("settlement unlock: %w", err)
		}
		return nil
	}, nil
}

func (l *SettlementLock) key(email string) string {
	return "settle:" + email
}
