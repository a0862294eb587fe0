package rank

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/feature"
	"github.com/rushteam/feedkit/model"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testExtractor() *feature.Extractor {
	e := feature.NewExtractor()
	e.Now = fixedNow
	return e
}

func TestNode_ScoresClamped(t *testing.T) {
	node := NewNode(testExtractor(), model.NewLightRanker(len(feature.Keys)), DefaultConfig())
	fctx := &core.FeedContext{UserID: "u1"}

	input := []*core.Candidate{
		core.NewCandidate(&core.Post{ID: "p1", Content: "x", LikeCount: 999999, CreatedAt: fixedNow()}, core.ReasonTrending),
		core.NewCandidate(&core.Post{ID: "p2", Content: "x", CreatedAt: fixedNow().AddDate(0, 0, -30)}, core.ReasonTrending),
	}

	out, err := node.Process(context.Background(), fctx, input)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range out {
		if c.Score < 0 || c.Score > 1 {
			t.Errorf("candidate %s score %v out of [0,1]", c.Post.ID, c.Score)
		}
	}
}

func TestNode_SortedDescendingStable(t *testing.T) {
	node := NewNode(testExtractor(), model.NewLightRanker(len(feature.Keys)), DefaultConfig())
	fctx := &core.FeedContext{UserID: "u1"}

	// p2 和 p3 完全同构 → 同分，稳定排序保持输入相对顺序
	mk := func(id string, likes int) *core.Candidate {
		return core.NewCandidate(&core.Post{
			ID: id, Content: "x", LikeCount: likes, CreatedAt: fixedNow().Add(-time.Hour),
		}, core.ReasonTrending)
	}
	out, err := node.Process(context.Background(), fctx,
		[]*core.Candidate{mk("p1", 10), mk("p2", 500), mk("p3", 500), mk("p4", 999)})
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(out); i++ {
		if out[i].Score > out[i-1].Score {
			t.Errorf("not sorted descending at %d: %v > %v", i, out[i].Score, out[i-1].Score)
		}
	}

	p2Idx, p3Idx := -1, -1
	for i, c := range out {
		switch c.Post.ID {
		case "p2":
			p2Idx = i
		case "p3":
			p3Idx = i
		}
	}
	if p2Idx > p3Idx {
		t.Errorf("stable sort violated: p2 at %d after p3 at %d", p2Idx, p3Idx)
	}
}

func TestNode_OneHourOldPost(t *testing.T) {
	// 1 小时前、零互动的帖子：E=0，R=1−1/168≈0.994，
	// 全零 LightRanker 给 L=0.5，默认 D=0.5
	node := NewNode(testExtractor(), model.NewLightRanker(len(feature.Keys)), DefaultConfig())
	fctx := &core.FeedContext{UserID: "u1"}

	out, err := node.Process(context.Background(), fctx, []*core.Candidate{
		core.NewCandidate(&core.Post{
			ID: "p1", Content: "x", CreatedAt: fixedNow().Add(-time.Hour),
		}, core.ReasonTrending),
	})
	if err != nil {
		t.Fatal(err)
	}

	r := 1 - 1.0/168
	want := 0.4*0 + 0.3*r + 0.2*0.5 + 0.1*0.5
	if got := out[0].Score; math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
	if math.Abs(out[0].Features["hours_since_post"]-1) > 1e-9 {
		t.Errorf("hours_since_post = %v, want 1", out[0].Features["hours_since_post"])
	}
}

func TestNode_ParallelMatchesSerial(t *testing.T) {
	mk := func() []*core.Candidate {
		out := make([]*core.Candidate, 0, 200)
		for i := 0; i < 200; i++ {
			out = append(out, core.NewCandidate(&core.Post{
				ID:        string(rune('a'+i%26)) + "_post",
				Content:   "content",
				LikeCount: i * 7 % 900,
				CreatedAt: fixedNow().Add(-time.Duration(i) * time.Hour),
			}, core.ReasonTrending))
		}
		return out
	}

	serial := NewNode(testExtractor(), model.NewLightRanker(len(feature.Keys)), DefaultConfig())

	cfg := DefaultConfig()
	cfg.Parallelism = 8
	parallel := NewNode(testExtractor(), model.NewLightRanker(len(feature.Keys)), cfg)

	fctx := &core.FeedContext{UserID: "u1"}
	a, err := serial.Process(context.Background(), fctx, mk())
	if err != nil {
		t.Fatal(err)
	}
	b, err := parallel.Process(context.Background(), fctx, mk())
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Score != b[i].Score {
			t.Errorf("position %d: serial %v vs parallel %v", i, a[i].Score, b[i].Score)
		}
	}
}

func TestBandReason(t *testing.T) {
	tests := []struct {
		score float64
		want  core.Reason
	}{
		{0.9, core.ReasonEngagement},
		{0.8, core.ReasonRecency},
		{0.7, core.ReasonRecency},
		{0.6, core.ReasonSimilarUsers},
		{0.5, core.ReasonSimilarUsers},
		{0.4, core.ReasonDiversity},
		{0.0, core.ReasonDiversity},
	}
	for _, tt := range tests {
		if got := bandReason(tt.score); got != tt.want {
			t.Errorf("bandReason(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
