package notify

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/feature"
	"github.com/rushteam/feedkit/model"
)

// Personalized 基于打分模型生成"猜你喜欢"类通知：
// 从关注关系外拉取探索帖子，走与时间线相同的特征抽取 + 模型打分。
type Personalized struct {
	Data      core.DataSource
	Extractor *feature.Extractor
	Model     model.Scorer
}

func (g *Personalized) Name() string { return "notify.personalized" }

func (g *Personalized) Generate(
	ctx context.Context,
	fctx *core.FeedContext,
	limit int,
) ([]*core.Notification, error) {
	posts, err := g.Data.FetchOutOfNetwork(ctx, fctx.UserID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Notification, 0, len(posts))
	for _, p := range posts {
		if p == nil || p.AuthorID == fctx.UserID {
			continue
		}

		features := g.Extractor.Extract(p, fctx.User)
		score, err := g.Model.Score(feature.Vector(features))
		if err != nil {
			return nil, err
		}

		n := core.NewNotification(fctx.UserID, core.NotificationPersonalized)
		n.Title = "Recommended for you"
		n.Body = snippet(p.Content, 80)
		n.PostID = p.ID
		n.ActorID = p.AuthorID
		n.Priority = core.PriorityLow
		n.Score = core.ClampScore(score)
		out = append(out, n)
	}
	return out, nil
}
