package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefix namespaces lock keys in a shared Redis.
	KeyPrefix = "logbook:lock:"

	defaultPollInterval = 50 * time.Millisecond
	releaseTimeout      = 5 * time.Second
)

// releaseScript deletes the lock only if it still holds our token, so a
// holder whose TTL lapsed cannot release a lock someone else now owns.
var releaseScript = redis.NewScript(`
local key = KEYS[1]    -- logbook:lock:{key}
local token = ARGV[1]

if redis.call('GET', key) == token then
  return redis.call('DEL', key)
end
return 0
`)

// renewScript resets the TTL only while the lock still holds our token.
var renewScript = redis.NewScript(`
local key = KEYS[1]    -- logbook:lock:{key}
local token = ARGV[1]
local ttl = ARGV[2]    -- milliseconds

if redis.call('GET', key) == token then
  return redis.call('PEXPIRE', key, ttl)
end
return 0
`)

// OpenRedis parses a redis:// URL and verifies the server answers.
func OpenRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("lock.OpenRedis: parse url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("lock.OpenRedis: ping: %w", err)
	}
	return client, nil
}

// RedisLocker is a Locker backed by SET NX PX. While a lease is held, a
// watchdog extends its TTL every ttl/3; a crashed holder's lock expires after
// ttl. If a renewal finds the token gone, the lease reports ErrLeaseLost.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	poll   time.Duration
	log    *slog.Logger
}

// NewRedisLocker returns a RedisLocker whose locks expire after ttl.
func NewRedisLocker(client *redis.Client, ttl time.Duration, log *slog.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, poll: defaultPollInterval, log: log}
}

// Lock implements Locker by polling SET NX until it succeeds or ctx ends.
func (l *RedisLocker) Lock(ctx context.Context, key string) (Lease, error) {
	start := time.Now()
	k := KeyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, busy("lock.RedisLocker.Lock", key, ctx.Err())
			}
			return nil, fmt.Errorf("lock.RedisLocker.Lock %s: %w", key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, busy("lock.RedisLocker.Lock", key, ctx.Err())
		case <-timer.C:
		}
	}
	observeWait(start)

	ls := newLease(func() { l.release(k, token) })
	go l.keepAlive(k, token, ls)
	return ls, nil
}

// keepAlive renews the lease until it is unlocked or found lost. A failed
// renewal is retried on the next tick; the TTL covers two missed ticks.
func (l *RedisLocker) keepAlive(key, token string, ls *lease) {
	every := max(l.ttl/3, time.Millisecond)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ls.done:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), every)
		renewed, err := renewScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
		cancel()
		if err != nil {
			l.log.Warn("lock renewal failed", "key", key, "error", err)
			continue
		}
		if renewed == 0 {
			select {
			case <-ls.done:
				// Released between the tick and the script.
			default:
				ls.lost.Store(true)
				l.log.Error("lock lease lost", "key", key)
			}
			return
		}
	}
}

// release runs on a fresh context: the caller's may already be cancelled.
func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.log.Warn("lock release failed", "key", key, "error", err)
	}
}
