package feature

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rushteam/feedkit/core"
)

// countingService 记录后端被访问的次数。
type countingService struct {
	mu    sync.Mutex
	calls int
}

func (s *countingService) Name() string { return "counting" }

func (s *countingService) GetUserFeatures(_ context.Context, userID string) (map[string]float64, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return map[string]float64{KeyEngagementRate: 0.5}, nil
}

func (s *countingService) Close(context.Context) error { return nil }

func TestCachedUserFeatureService_HitRate(t *testing.T) {
	backend := &countingService{}
	cache := NewCachedUserFeatureService(backend, 10, time.Minute)
	defer cache.Close(context.Background())
	ctx := context.Background()

	if got := cache.HitRate(); got != 0 {
		t.Errorf("initial hit rate = %v, want 0", got)
	}

	// miss → hit → hit
	for i := 0; i < 3; i++ {
		feats, err := cache.GetUserFeatures(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if feats[KeyEngagementRate] != 0.5 {
			t.Errorf("features = %v", feats)
		}
	}

	if backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1", backend.calls)
	}
	if got := cache.HitRate(); got != 2.0/3.0 {
		t.Errorf("hit rate = %v, want 2/3", got)
	}
}

func TestCachedUserFeatureService_LRUEviction(t *testing.T) {
	backend := &countingService{}
	cache := NewCachedUserFeatureService(backend, 2, time.Minute)
	defer cache.Close(context.Background())
	ctx := context.Background()

	cache.GetUserFeatures(ctx, "u1")
	cache.GetUserFeatures(ctx, "u2")
	cache.GetUserFeatures(ctx, "u3") // u1 被淘汰

	before := backend.calls
	cache.GetUserFeatures(ctx, "u1")
	if backend.calls != before+1 {
		t.Error("evicted entry must go back to the backend")
	}
}

func TestCachedUserFeatureService_CopyIsolation(t *testing.T) {
	backend := &countingService{}
	cache := NewCachedUserFeatureService(backend, 10, time.Minute)
	defer cache.Close(context.Background())
	ctx := context.Background()

	a, _ := cache.GetUserFeatures(ctx, "u1")
	a[KeyEngagementRate] = 999 // 调用方修改自己的副本

	b, _ := cache.GetUserFeatures(ctx, "u1")
	if b[KeyEngagementRate] != 0.5 {
		t.Error("cached entry must not be affected by caller mutation")
	}
}

func TestApplyUserFeatures(t *testing.T) {
	uctx := &core.UserContext{}
	ApplyUserFeatures(uctx, map[string]float64{
		KeyEngagementRate: 0.4,
		KeyActivityScore:  1.5, // 越界裁剪
	})
	if uctx.EngagementRate != 0.4 {
		t.Errorf("EngagementRate = %v", uctx.EngagementRate)
	}
	if uctx.ActivityScore != 1.0 {
		t.Errorf("ActivityScore = %v, want clamped to 1.0", uctx.ActivityScore)
	}

	// nil 安全
	ApplyUserFeatures(nil, nil)
}
