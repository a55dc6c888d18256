package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockFailed возвращается при ошибке Redis во время захвата блокировки
var ErrLockFailed = errors.New("locks: failed to acquire lock")

// Client минимальный набор команд Redis для блокировки
type Client interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Освобождаем блокировку, только если она все еще наша
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker распределенная блокировка по ключу (SET NX PX + освобождение по токену)
// Нужна, когда запущено несколько экземпляров сервиса
type RedisLocker struct {
	client Client
	ttl    time.Duration
	retry  time.Duration
	prefix string
	logger Logger
}

// NewRedisLocker создает блокировку поверх Redis
// ttl ограничивает время жизни блокировки, если держатель упал, не освободив её
func NewRedisLocker(client Client, ttl time.Duration, logger Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		retry:  50 * time.Millisecond,
		prefix: "booking-ops:lock:",
		logger: logger,
	}
}

// Lock захватывает блокировку ключа, повторяя попытки, пока жив ctx
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrLockFailed, key, err)
		}
		if ok {
			return l.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlockFunc(redisKey, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true

		// Освобождаем даже если контекст запроса уже отменен
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			if l.logger != nil {
				l.logger.Warn("RedisLocker: failed to release %s: %v", redisKey, err)
			}
		}
	}
}
