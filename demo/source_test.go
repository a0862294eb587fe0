package demo

import (
	"context"
	"testing"
)

func TestSource_Deterministic(t *testing.T) {
	ctx := context.Background()
	a := NewSource(7)
	b := NewSource(7)

	pa, err := a.FetchInNetwork(ctx, "alice", 50)
	if err != nil {
		t.Fatal(err)
	}
	pb, err := b.FetchInNetwork(ctx, "alice", 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(pa) != len(pb) {
		t.Fatalf("lengths differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i].ID != pb[i].ID {
			t.Errorf("position %d: %s vs %s", i, pa[i].ID, pb[i].ID)
		}
	}

	ia, _ := a.FetchRecentInteractions(ctx, "alice", 10)
	ib, _ := b.FetchRecentInteractions(ctx, "alice", 10)
	for i := range ia {
		if ia[i].PostID != ib[i].PostID || ia[i].Type != ib[i].Type {
			t.Errorf("interaction %d differs", i)
		}
	}
}

func TestSource_NetworkPartition(t *testing.T) {
	ctx := context.Background()
	s := NewSource(7)

	in, err := s.FetchInNetwork(ctx, "alice", 200)
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.FetchOutOfNetwork(ctx, "alice", 200)
	if err != nil {
		t.Fatal(err)
	}

	// 网内与网外互斥
	inIDs := make(map[string]bool, len(in))
	for _, p := range in {
		inIDs[p.ID] = true
	}
	for _, p := range out {
		if inIDs[p.ID] {
			t.Errorf("post %s in both in-network and out-of-network", p.ID)
		}
	}
}

func TestSource_TrendingSortedByEngagement(t *testing.T) {
	s := NewSource(7)
	posts, err := s.FetchTrending(context.Background(), 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 20 {
		t.Fatalf("got %d posts, want 20", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].TotalEngagement() > posts[i-1].TotalEngagement() {
			t.Errorf("trending not sorted at %d", i)
		}
	}
}

func TestSource_UserContextStable(t *testing.T) {
	s := NewSource(7)
	a, err := s.FetchUserContext(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.FetchUserContext(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if a.EngagementRate != b.EngagementRate || a.ActivityScore != b.ActivityScore {
		t.Error("user context must be stable across calls")
	}
	if a.EngagementRate < 0 || a.EngagementRate > 1 {
		t.Errorf("engagement rate %v out of [0,1]", a.EngagementRate)
	}
}
