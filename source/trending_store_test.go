package source

import (
	"context"
	"testing"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/store"
)

func TestStoreTrending_ZRange(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()

	// 离线任务维护的热度榜
	kv.ZAdd(ctx, "trending:posts", 90, "p2")
	kv.ZAdd(ctx, "trending:posts", 100, "p1")
	kv.ZAdd(ctx, "trending:posts", 80, "p3")

	posts := map[string]*core.Post{
		"p1": {ID: "p1", Content: "one"},
		"p2": {ID: "p2", Content: "two"},
		// p3 已被下架，解析不到
	}

	origin := &StoreTrending{
		Store: kv,
		Key:   "trending:posts",
		Resolve: func(_ context.Context, ids []string) ([]*core.Post, error) {
			out := make([]*core.Post, 0, len(ids))
			for _, id := range ids {
				if p, ok := posts[id]; ok {
					out = append(out, p)
				}
			}
			return out, nil
		},
	}

	got, err := origin.Fetch(ctx, &core.FeedContext{UserID: "u"}, 3)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"p1", "p2"}
	if len(got) != len(want) {
		t.Fatalf("got %d posts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("position %d: %s, want %s", i, got[i].ID, want[i])
		}
	}
	if origin.Reason() != core.ReasonTrending {
		t.Errorf("reason = %s", origin.Reason())
	}
}

func TestStoreTrending_MissingKey(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	origin := &StoreTrending{
		Store: kv,
		Key:   "trending:posts",
		Resolve: func(_ context.Context, ids []string) ([]*core.Post, error) {
			return nil, nil
		},
	}

	got, err := origin.Fetch(context.Background(), &core.FeedContext{UserID: "u"}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d posts, want 0", len(got))
	}
}
