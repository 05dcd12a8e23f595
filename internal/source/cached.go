package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/labtrade/internal/ingest"
	"github.com/wonny/labtrade/pkg/redis"
)

// CachedSource 다른 Source 앞단 Redis 캐시
// 캐시는 원본 조회에만 적용, 스냅샷은 매번 새로 계산
type CachedSource struct {
	inner Source
	cache *redis.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedSource wraps inner with a cache
func NewCachedSource(inner Source, cache *redis.Cache, ttl time.Duration, log zerolog.Logger) *CachedSource {
	return &CachedSource{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "source.cache").Logger(),
	}
}

// Fetch 캐시 조회 → 미스 시 inner 조회 후 저장
// 캐시 오류는 경고만 남기고 원본으로 진행
func (s *CachedSource) Fetch(ctx context.Context, ownerID string) ([]ingest.RawRecord, error) {
	key := redis.StatementsKey(ownerID)

	data, found, err := s.cache.GetBytes(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("owner", ownerID).Msg("cache read failed")
	}
	if found {
		if records, err := ingest.DecodeRecords(data); err == nil {
			s.log.Debug().Str("owner", ownerID).Int("records", len(records)).Msg("cache hit")
			return records, nil
		}
		s.log.Warn().Str("owner", ownerID).Msg("corrupt cache entry ignored")
	}

	records, err := s.inner.Fetch(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(records)
	if err != nil {
		s.log.Warn().Err(err).Msg("cache encode failed")
		return records, nil
	}
	if err := s.cache.SetBytes(ctx, key, payload, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("owner", ownerID).Msg("cache write failed")
	}
	return records, nil
}

// Invalidate 소유자 캐시 삭제
func (s *CachedSource) Invalidate(ctx context.Context, ownerID string) error {
	return s.cache.Delete(ctx, redis.StatementsKey(ownerID))
}
