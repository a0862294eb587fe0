package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/feedkit/core"
)

// Node 是通知链路的执行器：并发驱动多路 Generator，
// 按分数阈值过滤、降序排序、频控去重后截断。
//
// 与召回 fan-out 的差异：通知是尽力而为的链路，单路 Generator
// 失败一律吸收（记日志、继续），没有 fail 策略。
type Node struct {
	Generators []Generator
	Limiter    core.RateLimitStore
	Config     Config

	Logger zerolog.Logger

	// Now 可注入以便测试，nil 时使用 time.Now
	Now func() time.Time
}

// NewNode 装配通知链路。
func NewNode(generators []Generator, limiter core.RateLimitStore, cfg Config, logger zerolog.Logger) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Node{
		Generators: generators,
		Limiter:    limiter,
		Config:     cfg,
		Logger:     logger,
	}, nil
}

// Generate 为目标用户产出最终通知列表。
//
// 步骤：
//  1. 并发执行所有 Generator，按声明顺序拼接（失败路吸收）
//  2. 分数裁剪到 [0,1]，丢弃低于 MinScoreThreshold 的候选
//  3. 按分数降序稳定排序
//  4. 逐条尝试频控登记（原子 check-and-set），窗口内同类型只放行一条
//  5. 截断到 MaxNotifications
//
// 频控登记发生在截断判定之后：不会为注定被截掉的通知消耗窗口。
func (n *Node) Generate(ctx context.Context, fctx *core.FeedContext) ([]*core.Notification, error) {
	candidates, err := n.gather(ctx, fctx)
	if err != nil {
		return nil, err
	}

	// 阈值过滤
	kept := candidates[:0]
	for _, c := range candidates {
		c.Score = core.ClampScore(c.Score)
		if c.Score < n.Config.MinScoreThreshold {
			continue
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	out := make([]*core.Notification, 0, n.Config.MaxNotifications)
	for _, c := range kept {
		if len(out) >= n.Config.MaxNotifications {
			break
		}
		ok, err := n.Limiter.TrySetLastSent(ctx, fctx.UserID, c.Type, now, n.Config.MaxFrequency)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleNotify, core.ErrorCodeInternalError,
				"rate limit store failed", err)
		}
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// gather 并发执行所有 Generator 并按声明顺序拼接结果。
func (n *Node) gather(ctx context.Context, fctx *core.FeedContext) ([]*core.Notification, error) {
	if len(n.Generators) == 0 {
		return nil, nil
	}

	var (
		mu        sync.Mutex
		results   = make([][]*core.Notification, len(n.Generators))
		eg, egCtx = errgroup.WithContext(ctx)
	)

	for i, g := range n.Generators {
		idx, gen := i, g
		eg.Go(func() error {
			genCtx := egCtx
			if n.Config.GeneratorTimeout > 0 {
				var cancel context.CancelFunc
				genCtx, cancel = context.WithTimeout(egCtx, n.Config.GeneratorTimeout)
				defer cancel()
			}

			notifications, err := gen.Generate(genCtx, fctx, n.Config.MaxNotifications)
			if err != nil {
				n.Logger.Warn().
					Str("generator", gen.Name()).
					Err(err).
					Msg("notification generator failed, skipping")
				return nil
			}

			mu.Lock()
			results[idx] = notifications
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []*core.Notification
	for _, batch := range results {
		for _, c := range batch {
			if c == nil {
				continue
			}
			out = append(out, c)
		}
	}
	return out, nil
}
