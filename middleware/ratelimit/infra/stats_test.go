package infra

import (
	"context"
	"testing"
	"time"

	"vivair-contato/middleware/ratelimit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStatsStore_CountsByRouteReasonAndKey(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackKeys(true))
	ctx := context.Background()

	events := []domain.StatsEvent{
		{Key: "a", Allowed: true, Reason: domain.ReasonAccepted, Method: "POST", Path: "/api/contato"},
		{Key: "a", Allowed: false, Reason: domain.ReasonHoneypot, Method: "POST", Path: "/api/contato"},
		{Key: "b", Allowed: false, Reason: domain.ReasonRateLimited, Method: "POST", Path: "/api/contato"},
		{Key: "b", Allowed: true, Method: "GET", Path: "/"},
	}
	for _, ev := range events {
		require.NoError(t, s.Record(ctx, ev))
	}

	assert.Equal(t, Counters{Allowed: 2, Denied: 2}, s.Total())
	assert.Equal(t, Counters{Allowed: 1, Denied: 2}, s.ByRoute()["POST /api/contato"])
	assert.Equal(t, Counters{Allowed: 1, Denied: 1}, s.ByKey()["a"])
	assert.Equal(t, map[string]int64{
		domain.ReasonAccepted:    1,
		domain.ReasonHoneypot:    1,
		domain.ReasonRateLimited: 1,
	}, s.ByReason())
}

func TestMemoryStatsStore_KeysNotTrackedByDefault(t *testing.T) {
	s := NewMemoryStatsStore()
	require.NoError(t, s.Record(context.Background(), domain.StatsEvent{Key: "a", Allowed: true}))
	assert.Empty(t, s.ByKey())
}

func TestRedisStatsStore_RecordWritesHashes(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	s := NewRedisStatsStore(rdb, WithStatsPrefix("st"), WithStatsTrackKeys(true))

	at := time.Date(2026, 5, 4, 13, 7, 0, 0, time.UTC)
	err := s.Record(context.Background(), domain.StatsEvent{
		Key:     "1.2.3.4",
		Allowed: false,
		Reason:  domain.ReasonTooFast,
		Method:  "POST",
		Path:    "/api/contato",
		At:      at,
	})
	require.NoError(t, err)

	assert.Equal(t, "1", mr.HGet("st:total", "denied"))
	assert.Equal(t, "1", mr.HGet("st:minute:202605041307", "denied"))
	assert.Equal(t, "1", mr.HGet("st:reason", domain.ReasonTooFast))
	assert.Equal(t, "1", mr.HGet("st:route", "POST /api/contato:denied"))
	assert.Equal(t, "1", mr.HGet("st:key:1.2.3.4", "denied"))
	assert.Equal(t, 24*time.Hour, mr.TTL("st:key:1.2.3.4"))
}

func TestRedisStatsStore_NilSafe(t *testing.T) {
	var s *RedisStatsStore
	assert.NoError(t, s.Record(context.Background(), domain.StatsEvent{}))
}
