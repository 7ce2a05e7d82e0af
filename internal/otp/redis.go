package otp

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

const keyPrefix = "otp:phone:"

// consumeScript deletes the key only when it still holds the presented code,
// so two concurrent logins with the same code cannot both succeed.
const consumeScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// redisCommander is the subset of *redis.Client the store needs.
type redisCommander interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisStore shares codes between server instances through Redis key expiry.
type RedisStore struct {
	client redisCommander
	cb     *gobreaker.CircuitBreaker
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redisCommander, cb *gobreaker.CircuitBreaker) *RedisStore {
	return &RedisStore{client: client, cb: cb}
}

func (s *RedisStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, keyPrefix+phone, code, ttl).Err()
	})
	return err
}

func (s *RedisStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Eval(ctx, consumeScript, []string{keyPrefix + phone}, code).Int64()
	})
	if err != nil {
		return false, err
	}
	return res.(int64) == 1, nil
}
