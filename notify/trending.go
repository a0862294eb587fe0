package notify

import (
	"context"
	"time"

	"github.com/rushteam/feedkit/core"
)

// Trending 从全局热门帖子生成通知（"大家都在看"）。
type Trending struct {
	Data core.DataSource

	Now func() time.Time
}

func (g *Trending) Name() string { return "notify.trending" }

func (g *Trending) Generate(
	ctx context.Context,
	fctx *core.FeedContext,
	limit int,
) ([]*core.Notification, error) {
	posts, err := g.Data.FetchTrending(ctx, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}

	out := make([]*core.Notification, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		// 不把用户自己的帖子当热门推回给本人
		if p.AuthorID == fctx.UserID {
			continue
		}

		n := core.NewNotification(fctx.UserID, core.NotificationTrending)
		n.Title = "Trending now"
		n.Body = snippet(p.Content, 80)
		n.PostID = p.ID
		n.Priority = core.PriorityMedium
		n.Score = trendingScore(p, now)
		out = append(out, n)
	}
	return out, nil
}

// trendingScore 复用打分哲学：互动量归一化与一周线性衰减的混合。
//
//	score = 0.6·min(engagement/1000, 1) + 0.4·max(0, 1 − hours/168)
func trendingScore(p *core.Post, now time.Time) float64 {
	e := float64(p.TotalEngagement()) / 1000
	if e > 1 {
		e = 1
	}
	r := 1 - p.Age(now).Hours()/168
	if r < 0 {
		r = 0
	}
	return core.ClampScore(0.6*e + 0.4*r)
}

func snippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
