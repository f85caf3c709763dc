package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/critcoin/critcoin-api/pkg/errors"
)

type cacheRepoStub struct {
	entries  map[string][]byte
	getErr   error
	lastTTL  time.Duration
	patterns []string
}

func (r *cacheRepoStub) Get(_ context.Context, key string, dest interface{}) error {
	if r.getErr != nil {
		return r.getErr
	}
	raw, ok := r.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *cacheRepoStub) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.entries[key] = raw
	r.lastTTL = ttl
	return nil
}

func (r *cacheRepoStub) DeleteByPattern(_ context.Context, pattern string) error {
	r.patterns = append(r.patterns, pattern)
	return nil
}

func TestCacheServiceHitMissAndRatio(t *testing.T) {
	repo := &cacheRepoStub{entries: map[string][]byte{}}
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, 0, nil, true)

	var dest map[string]int
	hit, err := svc.Get(context.Background(), "archives:detail:a", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "archives:detail:a", map[string]int{"n": 1}, 0))
	assert.Equal(t, 5*time.Minute, repo.lastTTL)

	hit, err = svc.Get(context.Background(), "archives:detail:a", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, dest["n"])
	assert.InDelta(t, 0.5, testutil.ToFloat64(metrics.cacheHitRatio), 1e-9)
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	repo := &cacheRepoStub{entries: map[string][]byte{}, getErr: errors.New("connection reset")}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var dest map[string]int
	hit, err := svc.Get(context.Background(), "archives:list:1:20", &dest)
	assert.False(t, hit)
	assert.Error(t, err)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := &cacheRepoStub{entries: map[string][]byte{}}
	svc := NewCacheService(repo, nil, time.Minute, nil, false)

	require.NoError(t, svc.Set(context.Background(), "k", 1, 0))
	require.NoError(t, svc.Invalidate(context.Background(), archiveCachePattern))
	assert.Empty(t, repo.entries)
	assert.Empty(t, repo.patterns)

	var nilSvc *CacheService
	hit, err := nilSvc.Get(context.Background(), "k", new(int))
	assert.False(t, hit)
	assert.NoError(t, err)
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := &cacheRepoStub{entries: map[string][]byte{}}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	require.NoError(t, svc.Invalidate(context.Background(), archiveCachePattern))
	assert.Equal(t, []string{"archives:*"}, repo.patterns)
}
