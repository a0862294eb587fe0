// Package demo 提供一个确定性的内存数据源，用于示例与联调。
//
// 没有任何进程级全局状态：所有数据在 NewSource 时由种子化的
// 随机数生成，相同种子产出完全相同的数据集，测试可以做精确断言。
package demo

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"time"

	"github.com/rushteam/feedkit/core"
)

const (
	authorCount = 24
	postCount   = 240
)

// Source 是确定性的 core.DataSource 实现。
type Source struct {
	seed    int64
	now     time.Time
	authors map[string]*core.User
	posts   []*core.Post
}

// NewSource 以指定种子生成固定数据集。
func NewSource(seed int64) *Source {
	rng := rand.New(rand.NewSource(seed))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	authors := make(map[string]*core.User, authorCount)
	authorIDs := make([]string, 0, authorCount)
	for i := 0; i < authorCount; i++ {
		id := fmt.Sprintf("author_%02d", i)
		authors[id] = &core.User{
			ID:             id,
			Username:       fmt.Sprintf("user%02d", i),
			DisplayName:    fmt.Sprintf("User %02d", i),
			FollowerCount:  rng.Intn(100000),
			FollowingCount: rng.Intn(2000),
			PostCount:      rng.Intn(5000),
			Verified:       rng.Float64() < 0.2,
			CreatedAt:      now.AddDate(-1-rng.Intn(5), 0, 0),
		}
		authorIDs = append(authorIDs, id)
	}

	topics := []string{"golang", "recsys", "distributed", "observability", "databases"}
	posts := make([]*core.Post, 0, postCount)
	for i := 0; i < postCount; i++ {
		author := authorIDs[rng.Intn(len(authorIDs))]
		p := &core.Post{
			ID:          fmt.Sprintf("post_%04d", i),
			AuthorID:    author,
			Content:     fmt.Sprintf("Post %d about %s with enough text to pass content filtering", i, topics[rng.Intn(len(topics))]),
			LikeCount:   rng.Intn(800),
			RepostCount: rng.Intn(200),
			ReplyCount:  rng.Intn(100),
			QuoteCount:  rng.Intn(50),
			Hashtags:    []string{topics[rng.Intn(len(topics))]},
			Language:    "en",
			CreatedAt:   now.Add(-time.Duration(rng.Intn(7*24)) * time.Hour),
		}
		if rng.Float64() < 0.3 {
			p.MediaURLs = []string{fmt.Sprintf("https://cdn.example.com/media/%d.jpg", i)}
		}
		posts = append(posts, p)
	}

	return &Source{seed: seed, now: now, authors: authors, posts: posts}
}

var _ core.DataSource = (*Source)(nil)

func (s *Source) Name() string { return "demo" }

// Author 按 ID 返回作者资料（特征抽取的 AuthorResolver 可直接挂接）。
func (s *Source) Author(authorID string) *core.User {
	return s.authors[authorID]
}

// follows 用稳定哈希决定 userID 是否关注某作者，
// 不维护显式关注图也能保证跨调用一致。
func (s *Source) follows(userID, authorID string) bool {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(authorID))
	return h.Sum32()%3 == 0
}

func (s *Source) FetchInNetwork(_ context.Context, userID string, limit int) ([]*core.Post, error) {
	out := make([]*core.Post, 0, limit)
	for _, p := range s.posts {
		if len(out) >= limit {
			break
		}
		if p.AuthorID != userID && s.follows(userID, p.AuthorID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Source) FetchOutOfNetwork(_ context.Context, userID string, limit int) ([]*core.Post, error) {
	out := make([]*core.Post, 0, limit)
	for _, p := range s.posts {
		if len(out) >= limit {
			break
		}
		if p.AuthorID != userID && !s.follows(userID, p.AuthorID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Source) FetchTrending(_ context.Context, limit int) ([]*core.Post, error) {
	ranked := make([]*core.Post, len(s.posts))
	copy(ranked, s.posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalEngagement() > ranked[j].TotalEngagement()
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *Source) FetchUserContext(_ context.Context, userID string) (*core.UserContext, error) {
	h := fnv.New32a()
	h.Write([]byte(userID))
	v := h.Sum32()

	user := s.authors[userID]
	if user == nil {
		user = &core.User{ID: userID, Username: userID}
	}
	return &core.UserContext{
		User:           user,
		EngagementRate: float64(v%100) / 100,
		ActivityScore:  float64(v/100%100) / 100,
	}, nil
}

func (s *Source) FetchRecentInteractions(_ context.Context, userID string, limit int) ([]*core.Interaction, error) {
	h := fnv.New32a()
	h.Write([]byte(userID))
	rng := rand.New(rand.NewSource(s.seed ^ int64(h.Sum32())))

	types := []core.InteractionType{
		core.InteractionLike,
		core.InteractionRepost,
		core.InteractionReply,
		core.InteractionQuote,
		core.InteractionView,
	}

	out := make([]*core.Interaction, 0, limit)
	for i := 0; i < limit; i++ {
		p := s.posts[rng.Intn(len(s.posts))]
		out = append(out, &core.Interaction{
			UserID:    fmt.Sprintf("author_%02d", rng.Intn(authorCount)),
			PostID:    p.ID,
			Type:      types[rng.Intn(len(types))],
			Weight:    float64(rng.Intn(100)) / 100,
			CreatedAt: s.now.Add(-time.Duration(rng.Intn(48)) * time.Hour),
		})
	}
	return out, nil
}
