package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rushteam/feedkit/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	if _, err := m.Get(ctx, "absent"); !core.IsStoreNotFound(err) {
		t.Errorf("want not found, got %v", err)
	}

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v" {
		t.Errorf("got %q, want %q", got, "v")
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("want not found after delete, got %v", err)
	}
}

func TestMemoryStore_BatchGet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	m.Set(ctx, "a", []byte("1"))
	m.Set(ctx, "b", []byte("2"))

	got, err := m.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d entries, want 2", len(got))
	}
	if string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("got %v", got)
	}
}

func TestMemoryStore_ZRangeDescending(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	m.ZAdd(ctx, "hot", 80, "p3")
	m.ZAdd(ctx, "hot", 100, "p1")
	m.ZAdd(ctx, "hot", 90, "p2")

	got, err := m.ZRange(ctx, "hot", 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"p1", "p2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	score, err := m.ZScore(ctx, "hot", "p2")
	if err != nil {
		t.Fatal(err)
	}
	if score != 90 {
		t.Errorf("ZScore = %v, want 90", score)
	}
}

func TestMemoryStore_TrySetLastSent(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ok, err := m.TrySetLastSent(ctx, "u1", core.NotificationLike, now, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("first registration must succeed")
	}

	// 窗口内再次登记失败
	ok, err = m.TrySetLastSent(ctx, "u1", core.NotificationLike, now.Add(30*time.Minute), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("registration within window must fail")
	}

	// 不同类型与不同用户互不影响
	if ok, _ := m.TrySetLastSent(ctx, "u1", core.NotificationReply, now, time.Hour); !ok {
		t.Error("different type must not be limited")
	}
	if ok, _ := m.TrySetLastSent(ctx, "u2", core.NotificationLike, now, time.Hour); !ok {
		t.Error("different user must not be limited")
	}

	// 窗口过期后重新放行
	ok, err = m.TrySetLastSent(ctx, "u1", core.NotificationLike, now.Add(61*time.Minute), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("registration after window must succeed")
	}

	last, found, err := m.GetLastSent(ctx, "u1", core.NotificationLike)
	if err != nil {
		t.Fatal(err)
	}
	if !found || !last.Equal(now.Add(61*time.Minute)) {
		t.Errorf("GetLastSent = (%v, %v)", last, found)
	}
}

func TestMemoryStore_TrySetLastSentConcurrent(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()
	now := time.Now()

	// 原子 check-and-set：并发调用下至多一个成功
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := m.TrySetLastSent(ctx, "u1", core.NotificationTrending, now, time.Hour)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d concurrent registrations succeeded, want exactly 1", wins)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), 1); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "k"); err != nil {
		t.Fatalf("key must exist before expiry: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("want not found after expiry, got %v", err)
	}
}
