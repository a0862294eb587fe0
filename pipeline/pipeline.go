package pipeline

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Pipeline 是 feedkit 的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 一条完整的时间线链路是 Source → Filter → Rank → Mix 四个 Node。
type Pipeline struct {
	Nodes []Node
}

// Run 依次执行所有 Node。任一 Node 失败则整条链路失败，
// 调用方不会拿到部分构造的结果。
func (p *Pipeline) Run(
	ctx context.Context,
	fctx *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, fctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
