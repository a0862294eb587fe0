package source

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Origin 表示一路可复用的候选来源（关注内/探索/热门/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
type Origin interface {
	Name() string

	// Reason 是该来源产出候选的入选原因标记
	Reason() core.Reason

	// Fetch 拉取至多 limit 条候选帖子
	Fetch(ctx context.Context, fctx *core.FeedContext, limit int) ([]*core.Post, error)
}

// InNetwork 是关注关系内来源：请求用户关注的作者们的近期帖子。
type InNetwork struct {
	Data core.DataSource
}

func (o *InNetwork) Name() string        { return "source.in_network" }
func (o *InNetwork) Reason() core.Reason { return core.ReasonInNetwork }

func (o *InNetwork) Fetch(ctx context.Context, fctx *core.FeedContext, limit int) ([]*core.Post, error) {
	return o.Data.FetchInNetwork(ctx, fctx.UserID, limit)
}

// OutOfNetwork 是关注关系外来源：探索性帖子（相似用户/主题扩散由数据源决定）。
type OutOfNetwork struct {
	Data core.DataSource
}

func (o *OutOfNetwork) Name() string        { return "source.out_of_network" }
func (o *OutOfNetwork) Reason() core.Reason { return core.ReasonOutOfNetwork }

func (o *OutOfNetwork) Fetch(ctx context.Context, fctx *core.FeedContext, limit int) ([]*core.Post, error) {
	return o.Data.FetchOutOfNetwork(ctx, fctx.UserID, limit)
}

// Trending 是全局热门来源，与具体用户无关。
type Trending struct {
	Data core.DataSource
}

func (o *Trending) Name() string        { return "source.trending" }
func (o *Trending) Reason() core.Reason { return core.ReasonTrending }

func (o *Trending) Fetch(ctx context.Context, _ *core.FeedContext, limit int) ([]*core.Post, error) {
	return o.Data.FetchTrending(ctx, limit)
}
