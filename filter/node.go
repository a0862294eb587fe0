package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// SessionFilter 是需要单次运行内状态的过滤器扩展接口
// （例如去重）。FilterNode 在每次 Process 时为其创建独立会话，
// 保证并发请求之间无状态串扰。
type SessionFilter interface {
	Filter
	NewSession() Filter
}

// Node 是过滤 Node，按固定顺序组合多个过滤器。
// 任何一个过滤器返回 true，该候选就会被过滤掉。
// 纯函数语义：不修改存活候选、保持相对顺序，幂等。
type Node struct {
	Filters []Filter

	Logger zerolog.Logger
}

// NewNode 按配置装配标准过滤链：content → author → engagement → diversity。
// 各子过滤器独立开关；diversity 未接入相似性模型时退化为精确去重。
func NewNode(cfg Config, logger zerolog.Logger) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var filters []Filter
	if cfg.EnableContentFiltering {
		cf, err := NewContentFilter(cfg.MinContentLength, cfg.DeniedTerms, cfg.PolicyRules)
		if err != nil {
			return nil, err
		}
		filters = append(filters, cf)
	}
	if cfg.EnableUserFiltering {
		filters = append(filters, &AuthorFilter{})
	}
	if cfg.EnableEngagementFiltering {
		filters = append(filters, &EngagementFilter{MinEngagement: cfg.MinEngagementThreshold})
	}
	if cfg.EnableDiversityFiltering {
		filters = append(filters, &DiversityFilter{})
	}
	return &Node{Filters: filters, Logger: logger}, nil
}

func (n *Node) Name() string        { return "filter.node" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Filters) == 0 || len(candidates) == 0 {
		return candidates, nil
	}

	// 有状态过滤器换成本次运行的独立会话
	active := make([]Filter, len(n.Filters))
	for i, f := range n.Filters {
		if sf, ok := f.(SessionFilter); ok {
			active[i] = sf.NewSession()
			continue
		}
		active[i] = f
	}

	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}

		postID := ""
		if c.Post != nil {
			postID = c.Post.ID
		}

		shouldFilter := false
		filterReason := ""
		for _, f := range active {
			ok, err := f.ShouldFilter(ctx, fctx, c)
			if err != nil {
				// 过滤器错误降级为放行，记录后继续走后续过滤器
				n.Logger.Warn().
					Err(err).
					Str("filter", f.Name()).
					Str("post_id", postID).
					Msg("filter error, candidate passed through")
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			c.PutLabel("filtered", utils.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}

		out = append(out, c)
	}

	return out, nil
}
