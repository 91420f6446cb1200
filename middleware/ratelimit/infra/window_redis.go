package infra

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vivair-contato/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// RedisWindowStore implementa domain.WindowLimiter sobre Redis, compartilhando
// o contador entre instâncias.
//
// Cada chave vira um inteiro com TTL igual à janela: INCR abre a janela e o
// PEXPIRE (só quando o contador vale 1) fixa o ResetAt. Quando o TTL vence o
// Redis apaga a chave e a próxima requisição começa do zero.
type RedisWindowStore struct {
	rdb    redis.Cmdable
	prefix string
	limit  int
	window time.Duration
}

type RedisWindowOption func(*RedisWindowStore)

func WithWindowPrefix(prefix string) RedisWindowOption {
	return func(s *RedisWindowStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisWindowStore(rdb redis.Cmdable, limit int, window time.Duration, opts ...RedisWindowOption) *RedisWindowStore {
	s := &RedisWindowStore{
		rdb:    rdb,
		prefix: "contato:window",
		limit:  limit,
		window: window,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisWindowStore) redisKey(key domain.Key) string {
	return s.prefix + ":" + string(key)
}

func (s *RedisWindowStore) Check(ctx context.Context, key domain.Key) (domain.Window, error) {
	rk := s.redisKey(key)

	pipe := s.rdb.Pipeline()
	getCmd := pipe.Get(ctx, rk)
	ttlCmd := pipe.PTTL(ctx, rk)
	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Window{}, fmt.Errorf("redis window check: %w", err)
	}

	now := time.Now()
	count, err := getCmd.Int()
	if errors.Is(err, redis.Nil) {
		return domain.Window{Limit: s.limit, ResetAt: now.Add(s.window)}, nil
	}
	if err != nil {
		return domain.Window{}, fmt.Errorf("redis window check: %w", err)
	}

	return domain.Window{Count: count, Limit: s.limit, ResetAt: now.Add(s.ttlOrWindow(ttlCmd.Val()))}, nil
}

func (s *RedisWindowStore) Record(ctx context.Context, key domain.Key) (domain.Window, error) {
	rk := s.redisKey(key)

	count, err := s.rdb.Incr(ctx, rk).Result()
	if err != nil {
		return domain.Window{}, fmt.Errorf("redis window record: %w", err)
	}
	if count == 1 {
		if err := s.rdb.PExpire(ctx, rk, s.window).Err(); err != nil {
			return domain.Window{}, fmt.Errorf("redis window expire: %w", err)
		}
	}

	ttl, err := s.rdb.PTTL(ctx, rk).Result()
	if err != nil {
		ttl = s.window
	}
	// chave sem TTL (PEXPIRE perdido): reaplica para não travar o cliente para sempre
	if ttl < 0 {
		_ = s.rdb.PExpire(ctx, rk, s.window).Err()
		ttl = s.window
	}

	return domain.Window{Count: int(count), Limit: s.limit, ResetAt: time.Now().Add(ttl)}, nil
}

func (s *RedisWindowStore) ttlOrWindow(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return s.window
	}
	return ttl
}
