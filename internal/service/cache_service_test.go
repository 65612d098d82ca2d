package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

type stubCacheRepo struct {
	data      map[string][]byte
	getErr    error
	setErr    error
	lastTTL   time.Duration
	deleteErr error
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{data: make(map[string][]byte)}
}

func (s *stubCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	raw, ok := s.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	s.lastTTL = ttl
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	removed := 0
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
			removed++
		}
	}
	return removed, nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newStubCacheRepo()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out cachedCatalogPage
	assert.False(t, svc.Get(ctx, "academix:catalog:a", &out))

	svc.Set(ctx, "academix:catalog:a", cachedCatalogPage{Total: 3}, 0)
	assert.Equal(t, time.Minute, repo.lastTTL)
	require.True(t, svc.Get(ctx, "academix:catalog:a", &out))
	assert.Equal(t, 3, out.Total)

	svc.Set(ctx, "academix:catalog:b", cachedCatalogPage{}, time.Second)
	svc.Invalidate(ctx, "academix:catalog:*")
	assert.Empty(t, repo.data)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
	assert.Equal(t, uint64(2), snapshot.CacheInvalidations)
	assert.InDelta(t, 0.5, snapshot.CacheHitRatio, 0.0001)
}

func TestCacheServiceDegradesOnErrors(t *testing.T) {
	repo := newStubCacheRepo()
	repo.getErr = errors.New("connection refused")
	repo.setErr = errors.New("connection refused")
	repo.deleteErr = errors.New("connection refused")
	svc := NewCacheService(repo, nil, 0, nil, true)
	ctx := context.Background()

	var out cachedCatalogPage
	assert.False(t, svc.Get(ctx, "k", &out))
	svc.Set(ctx, "k", out, 0)
	svc.Invalidate(ctx, "k*")
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newStubCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, false)

	svc.Set(context.Background(), "k", cachedCatalogPage{}, 0)
	assert.Empty(t, repo.data)
	assert.False(t, svc.Enabled())

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.False(t, nilSvc.Get(context.Background(), "k", &cachedCatalogPage{}))
}
