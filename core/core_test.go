package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/feedkit/pkg/utils"
)

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
	}
	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPost_TotalEngagement(t *testing.T) {
	p := &Post{LikeCount: 1, RepostCount: 2, ReplyCount: 3, QuoteCount: 4}
	if got := p.TotalEngagement(); got != 10 {
		t.Errorf("TotalEngagement = %d, want 10", got)
	}
}

func TestDomainError(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewSourceUnavailable("trending", inner)

	if !IsSourceUnavailable(err) {
		t.Error("IsSourceUnavailable = false")
	}
	if !IsTransient(err) {
		t.Error("origin failure must be transient")
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is must reach the wrapped error")
	}

	cfgErr := NewDomainError(ModuleRank, ErrorCodeInvalidConfig, "bad weights")
	if !IsInvalidConfig(cfgErr) {
		t.Error("IsInvalidConfig = false")
	}
	if IsTransient(cfgErr) {
		t.Error("config error must not be transient")
	}
	if IsSourceUnavailable(errors.New("plain")) {
		t.Error("plain error misclassified")
	}
}

func TestCandidate_PutLabelMerges(t *testing.T) {
	c := NewCandidate(&Post{ID: "p1"}, ReasonInNetwork)

	c.PutLabel("origin", utils.Label{Value: "in_network", Source: "source"})
	c.PutLabel("origin", utils.Label{Value: "trending", Source: "source"})

	got := c.Labels["origin"]
	if got.Value != "in_network|trending" {
		t.Errorf("merged value = %q", got.Value)
	}
	if got.Source != "source,source" {
		t.Errorf("merged source = %q", got.Source)
	}
}

func TestTimeline_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC)
	in := &Timeline{
		ID:     "t1",
		UserID: "u1",
		Candidates: []*Candidate{{
			Post:        &Post{ID: "p1", AuthorID: "a1", Content: "hello", CreatedAt: now},
			Score:       0.75,
			Reason:      ReasonRecency,
			GeneratedAt: now,
		}},
		CreatedAt: now,
		Algorithm: "feedkit/blended@v1",
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Timeline
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	if out.ID != in.ID || out.UserID != in.UserID || out.Algorithm != in.Algorithm {
		t.Errorf("identity fields differ: %+v", out)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("timestamp precision lost: %v vs %v", out.CreatedAt, in.CreatedAt)
	}
	c := out.Candidates[0]
	if c.Score != 0.75 || c.Reason != ReasonRecency || c.Post.ID != "p1" {
		t.Errorf("candidate differs: %+v", c)
	}
}

func TestNotification_RoundTrip(t *testing.T) {
	in := NewNotification("u1", NotificationReply)
	in.Title = "New reply"
	in.Body = "Someone replied to your post"
	in.PostID = "p1"
	in.ActorID = "a1"
	in.Priority = PriorityHigh
	in.Score = 0.9

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Notification
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	if out.ID != in.ID || out.Type != in.Type || out.Priority != in.Priority ||
		out.Score != in.Score || out.PostID != in.PostID || out.ActorID != in.ActorID {
		t.Errorf("fields differ: %+v vs %+v", out, in)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Error("timestamp precision lost")
	}
}

func TestSnapshotResourceUsage(t *testing.T) {
	u := SnapshotResourceUsage()
	if u.HeapAllocBytes == 0 {
		t.Error("heap alloc should be non-zero in a running process")
	}
	if u.NumGoroutine < 1 {
		t.Errorf("NumGoroutine = %d", u.NumGoroutine)
	}
}
