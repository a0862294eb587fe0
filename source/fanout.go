package source

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// WeightedOrigin 是一路来源及其候选配额权重。
type WeightedOrigin struct {
	Origin Origin
	Weight float64
}

// Stats 是一次召回 fan-out 的运行统计。
type Stats struct {
	Origins  int      // 参与的来源数
	Failed   int      // 失败（降级吸收）的来源数
	Sourced  int      // 产出候选总数
	Degraded []string // 被降级的来源名
}

// ErrorRate 返回失败来源比例，取值 [0,1]。
func (s Stats) ErrorRate() float64 {
	if s.Origins == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Origins)
}

// Fanout 是召回 Node：并发执行多路来源，按固定顺序拼接结果。
//
// 约定：
//   - 每路配额 = round(weight × MaxCandidates)
//   - 拼接顺序 = Origins 的声明顺序（in-network → out-of-network → trending），
//     与各路完成先后无关
//   - 本阶段不去重，重复候选由过滤阶段收口
//   - 单路失败按 Policy 处理：degrade 吸收并记入 Stats，fail 整体失败
type Fanout struct {
	Origins []WeightedOrigin

	MaxCandidates int
	Policy        FailurePolicy
	Timeout       time.Duration

	Logger zerolog.Logger
}

// NewFanout 按配置装配标准三路召回：in-network / out-of-network / trending。
func NewFanout(data core.DataSource, cfg Config, logger zerolog.Logger) (*Fanout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Fanout{
		Origins: []WeightedOrigin{
			{Origin: &InNetwork{Data: data}, Weight: cfg.InNetworkWeight},
			{Origin: &OutOfNetwork{Data: data}, Weight: cfg.OutOfNetworkWeight},
			{Origin: &Trending{Data: data}, Weight: cfg.TrendingWeight},
		},
		MaxCandidates: cfg.MaxCandidates,
		Policy:        cfg.FailurePolicy,
		Timeout:       cfg.OriginTimeout,
		Logger:        logger,
	}, nil
}

func (n *Fanout) Name() string        { return "source.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindSource }

// Process 实现 Node 接口（丢弃统计信息；编排层用 Gather 拿统计）。
func (n *Fanout) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	candidates, _, err := n.Gather(ctx, fctx)
	return candidates, err
}

// Gather 并发拉取所有来源并返回候选与运行统计。
func (n *Fanout) Gather(
	ctx context.Context,
	fctx *core.FeedContext,
) ([]*core.Candidate, Stats, error) {
	stats := Stats{Origins: len(n.Origins)}
	if len(n.Origins) == 0 {
		return nil, stats, nil
	}

	var (
		mu      sync.Mutex
		results = make([][]*core.Post, len(n.Origins))
		eg, egCtx = errgroup.WithContext(ctx)
	)

	for i, wo := range n.Origins {
		idx, entry := i, wo
		limit := int(math.Round(entry.Weight * float64(n.MaxCandidates)))
		if limit <= 0 {
			continue
		}

		eg.Go(func() error {
			fetchCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			posts, err := entry.Origin.Fetch(fetchCtx, fctx, limit)
			if err != nil {
				if n.Policy == PolicyFail {
					return core.NewSourceUnavailable(entry.Origin.Name(), err)
				}
				// 降级：吸收失败，剩余来源继续
				mu.Lock()
				stats.Failed++
				stats.Degraded = append(stats.Degraded, entry.Origin.Name())
				mu.Unlock()
				n.Logger.Warn().
					Str("origin", entry.Origin.Name()).
					Err(err).
					Msg("origin fetch failed, degrading")
				return nil
			}

			if len(posts) > limit {
				posts = posts[:limit]
			}
			mu.Lock()
			results[idx] = posts
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, stats, err
	}

	// 按声明顺序拼接，写入来源原因与 label
	out := make([]*core.Candidate, 0, n.MaxCandidates)
	for i, posts := range results {
		reason := n.Origins[i].Origin.Reason()
		name := n.Origins[i].Origin.Name()
		for _, p := range posts {
			if p == nil {
				continue
			}
			c := core.NewCandidate(p, reason)
			c.PutLabel("origin", utils.Label{Value: name, Source: "source"})
			out = append(out, c)
		}
	}
	stats.Sourced = len(out)
	return out, stats, nil
}
