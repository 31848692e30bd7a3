package xid

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// NewString returns a random identifier for string-keyed records.
func NewString() string {
	return uuid.NewString()
}

// Sequence hands out integer ids for records whose key the desktop client
// expects to be numeric.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
	// Advance makes later Next calls for name return values above floor.
	// It never moves a counter backwards.
	Advance(ctx context.Context, name string, floor int64) error
}

// Counter is an in-process Sequence. Every name starts just above the Unix
// second the counter was created at, so ids stay above those written by
// earlier runs that used the clock directly.
type Counter struct {
	mu    sync.Mutex
	seed  int64
	names map[string]int64
}

func NewCounter() *Counter {
	return NewCounterFrom(time.Now().Unix())
}

func NewCounterFrom(seed int64) *Counter {
	return &Counter{seed: seed, names: map[string]int64{}}
}

func (c *Counter) Next(_ context.Context, name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.names[name]
	if !ok {
		n = c.seed
	}
	n++
	c.names[name] = n
	return n, nil
}

func (c *Counter) Advance(_ context.Context, name string, floor int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.names[name]
	if !ok {
		n = c.seed
	}
	c.names[name] = max(n, floor)
	return nil
}

// advanceScript raises the counter to ARGV[1], starting a missing one at the
// seed in ARGV[2].
var advanceScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or ARGV[2])
local floor = tonumber(ARGV[1])
if cur < floor then cur = floor end
redis.call('SET', KEYS[1], cur)
return cur
`)

// RedisSequence keeps counters in Redis so several server processes sharing
// one database never hand out the same id.
type RedisSequence struct {
	client *redis.Client
	prefix string
	seed   int64
}

func NewRedisSequence(addr string, password string, db int) *RedisSequence {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisSequence{client: client, prefix: "storepos:seq:", seed: time.Now().Unix()}
}

func (s *RedisSequence) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSequence) Close() error {
	return s.client.Close()
}

func (s *RedisSequence) Next(ctx context.Context, name string) (int64, error) {
	key := s.prefix + name
	// SETNX keeps an existing counter; a fresh one starts at the seed.
	if err := s.client.SetNX(ctx, key, s.seed, 0).Err(); err != nil {
		return 0, err
	}
	return s.client.Incr(ctx, key).Result()
}

func (s *RedisSequence) Advance(ctx context.Context, name string, floor int64) error {
	return advanceScript.Run(ctx, s.client, []string{s.prefix + name}, floor, s.seed).Err()
}
