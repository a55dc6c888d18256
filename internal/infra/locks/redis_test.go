package locks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis реализует SET NX и скрипт освобождения в памяти
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) release(keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data[keys[0]] == args[0].(string) {
		delete(f.data, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func (f *fakeRedis) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.release(keys, args...)
}

func (f *fakeRedis) EvalSha(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.release(keys, args...)
}

func (f *fakeRedis) EvalRO(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.release(keys, args...)
}

func (f *fakeRedis) EvalShaRO(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.release(keys, args...)
}

func (f *fakeRedis) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(make([]bool, len(hashes)), nil)
}

func (f *fakeRedis) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringResult("sha", nil)
}

func (f *fakeRedis) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func TestRedisLocker_LockAndRelease(t *testing.T) {
	fake := newFakeRedis()
	locker := NewRedisLocker(fake, time.Second, nil)

	unlock, err := locker.Lock(context.Background(), "b1")
	require.NoError(t, err)
	assert.True(t, fake.has("booking-ops:lock:b1"))

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "b1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.False(t, fake.has("booking-ops:lock:b1"))

	unlock2, err := locker.Lock(context.Background(), "b1")
	require.NoError(t, err)
	unlock2()
}

func TestRedisLocker_DoesNotReleaseForeignLock(t *testing.T) {
	fake := newFakeRedis()
	locker := NewRedisLocker(fake, time.Second, nil)

	unlock, err := locker.Lock(context.Background(), "b1")
	require.NoError(t, err)

	// блокировка истекла и её захватил другой экземпляр
	fake.mu.Lock()
	fake.data["booking-ops:lock:b1"] = "other-token"
	fake.mu.Unlock()

	unlock()
	assert.True(t, fake.has("booking-ops:lock:b1"))
}
