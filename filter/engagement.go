package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// EngagementFilter 过滤总互动量低于阈值的帖子。
// 阈值为 0 时等价于放行所有帖子（默认配置）。
type EngagementFilter struct {
	MinEngagement int
}

func (f *EngagementFilter) Name() string { return "filter.engagement" }

func (f *EngagementFilter) ShouldFilter(
	_ context.Context,
	_ *core.FeedContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || c.Post == nil {
		return true, nil
	}
	return c.Post.TotalEngagement() < f.MinEngagement, nil
}
