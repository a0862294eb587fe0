package source

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/feedkit/core"
)

// stubData 每路返回 limit 条帖子，ID 带来源前缀方便断言。
type stubData struct {
	failTrending  bool
	slowInNetwork time.Duration
}

func (s *stubData) Name() string { return "stub" }

func (s *stubData) makePosts(prefix string, limit int) []*core.Post {
	out := make([]*core.Post, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, &core.Post{
			ID:       fmt.Sprintf("%s_%d", prefix, i),
			AuthorID: "a1",
			Content:  "content",
		})
	}
	return out
}

func (s *stubData) FetchInNetwork(ctx context.Context, _ string, limit int) ([]*core.Post, error) {
	if s.slowInNetwork > 0 {
		select {
		case <-time.After(s.slowInNetwork):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.makePosts("in", limit), nil
}

func (s *stubData) FetchOutOfNetwork(_ context.Context, _ string, limit int) ([]*core.Post, error) {
	return s.makePosts("out", limit), nil
}

func (s *stubData) FetchTrending(_ context.Context, limit int) ([]*core.Post, error) {
	if s.failTrending {
		return nil, errors.New("trending upstream down")
	}
	return s.makePosts("hot", limit), nil
}

func (s *stubData) FetchUserContext(_ context.Context, userID string) (*core.UserContext, error) {
	return &core.UserContext{User: &core.User{ID: userID}}, nil
}

func (s *stubData) FetchRecentInteractions(_ context.Context, _ string, _ int) ([]*core.Interaction, error) {
	return nil, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxCandidates = 100
	return cfg
}

func countPrefix(cs []*core.Candidate, prefix string) int {
	n := 0
	for _, c := range cs {
		if len(c.Post.ID) > len(prefix) && c.Post.ID[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func TestFanout_WeightSplit(t *testing.T) {
	// 权重 0.5/0.3/0.2，MaxCandidates=100 → 50/30/20（±1 舍入）
	fanout, err := NewFanout(&stubData{}, testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	out, stats, err := fanout.Gather(context.Background(), &core.FeedContext{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) > 100 {
		t.Errorf("got %d candidates, want <= 100", len(out))
	}

	checks := []struct {
		prefix string
		want   int
	}{
		{"in_", 50},
		{"out_", 30},
		{"hot_", 20},
	}
	for _, c := range checks {
		got := countPrefix(out, c.prefix)
		if got < c.want-1 || got > c.want+1 {
			t.Errorf("%s candidates = %d, want %d±1", c.prefix, got, c.want)
		}
	}
	if stats.Sourced != len(out) {
		t.Errorf("stats.Sourced = %d, want %d", stats.Sourced, len(out))
	}
}

func TestFanout_DeclarationOrderConcat(t *testing.T) {
	fanout, err := NewFanout(&stubData{}, testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	out, _, err := fanout.Gather(context.Background(), &core.FeedContext{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}

	// 拼接顺序固定：in-network → out-of-network → trending
	section := 0
	prefixes := []string{"in_", "out_", "hot_"}
	for _, c := range out {
		for section < len(prefixes) && c.Post.ID[:len(prefixes[section])] != prefixes[section] {
			section++
		}
		if section == len(prefixes) {
			t.Fatalf("candidate %s out of declaration order", c.Post.ID)
		}
	}

	// 来源原因随来源写入
	if out[0].Reason != core.ReasonInNetwork {
		t.Errorf("first candidate reason = %s, want in_network", out[0].Reason)
	}
	last := out[len(out)-1]
	if last.Reason != core.ReasonTrending {
		t.Errorf("last candidate reason = %s, want trending", last.Reason)
	}
}

func TestFanout_DegradePolicy(t *testing.T) {
	fanout, err := NewFanout(&stubData{failTrending: true}, testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	out, stats, err := fanout.Gather(context.Background(), &core.FeedContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("degrade policy must absorb origin failure, got %v", err)
	}

	if stats.Failed != 1 {
		t.Errorf("stats.Failed = %d, want 1", stats.Failed)
	}
	if got := stats.ErrorRate(); got != 1.0/3.0 {
		t.Errorf("ErrorRate = %v, want 1/3", got)
	}
	if countPrefix(out, "hot_") != 0 {
		t.Error("failed origin must contribute no candidates")
	}
	if countPrefix(out, "in_") == 0 || countPrefix(out, "out_") == 0 {
		t.Error("surviving origins must still contribute")
	}
}

func TestFanout_FailPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.FailurePolicy = PolicyFail

	fanout, err := NewFanout(&stubData{failTrending: true}, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = fanout.Gather(context.Background(), &core.FeedContext{UserID: "u1"})
	if !core.IsSourceUnavailable(err) {
		t.Errorf("want SOURCE_UNAVAILABLE, got %v", err)
	}
	if !core.IsTransient(err) {
		t.Error("origin failure should be transient")
	}
}

func TestFanout_SlowOriginTimesOut(t *testing.T) {
	cfg := testConfig()
	cfg.OriginTimeout = 20 * time.Millisecond

	fanout, err := NewFanout(&stubData{slowInNetwork: 500 * time.Millisecond}, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	out, stats, err := fanout.Gather(context.Background(), &core.FeedContext{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 300*time.Millisecond {
		t.Error("slow origin must time out independently, not block the pipeline")
	}
	if stats.Failed != 1 {
		t.Errorf("timed-out origin should count as failed, got %d", stats.Failed)
	}
	if countPrefix(out, "in_") != 0 {
		t.Error("timed-out origin must contribute no candidates")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default valid", func(*Config) {}, false},
		{"weights sum over 1", func(c *Config) { c.InNetworkWeight = 0.9 }, true},
		{"zero max candidates", func(c *Config) { c.MaxCandidates = 0 }, true},
		{"bad policy", func(c *Config) { c.FailurePolicy = "maybe" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !core.IsInvalidConfig(err) {
				t.Errorf("want INVALID_CONFIG, got %v", err)
			}
		})
	}
}
