package otp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements redisCommander in memory. Eval understands only the
// compare-and-delete script used by RedisStore.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration

	SetError  error
	EvalError error
	EvalCalls int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStatusCmd(ctx)
	if f.SetError != nil {
		cmd.SetErr(f.SetError)
		return cmd
	}
	f.data[key] = value.(string)
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EvalCalls++
	cmd := redis.NewCmd(ctx)
	if f.EvalError != nil {
		cmd.SetErr(f.EvalError)
		return cmd
	}
	if v, ok := f.data[keys[0]]; ok && v == args[0].(string) {
		delete(f.data, keys[0])
		cmd.SetVal(int64(1))
		return cmd
	}
	cmd.SetVal(int64(0))
	return cmd
}

func newTestBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "test",
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})
}

func TestRedisStore_SaveUsesPrefixedKeyAndTTL(t *testing.T) {
	f := newFakeRedis()
	s := NewRedisStore(f, newTestBreaker())

	require.NoError(t, s.Save(context.Background(), "91234567", "482913", 5*time.Minute))

	assert.Equal(t, "482913", f.data["otp:phone:91234567"])
	assert.Equal(t, 5*time.Minute, f.ttls["otp:phone:91234567"])
}

func TestRedisStore_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	f := newFakeRedis()
	s := NewRedisStore(f, newTestBreaker())
	require.NoError(t, s.Save(ctx, "91234567", "482913", time.Minute))

	ok, err := s.Consume(ctx, "91234567", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Consume(ctx, "91234567", "482913")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Consume(ctx, "91234567", "482913")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_BreakerOpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	f := newFakeRedis()
	f.EvalError = errors.New("connection refused")
	s := NewRedisStore(f, newTestBreaker())

	for i := 0; i < 3; i++ {
		_, err := s.Consume(ctx, "91234567", "482913")
		assert.Error(t, err)
	}

	_, err := s.Consume(ctx, "91234567", "482913")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, f.EvalCalls, "open breaker must not reach redis")
}
