package rank

import (
	"context"
	"math"
	"sort"

	"github.com/alitto/pond/v2"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/feature"
	"github.com/rushteam/feedkit/model"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// DiversitySignal 是多样性信号的可插拔抽象，取值 [0,1]。
// 默认实现是常量透传；真实的多样性模型（作者分散度、主题覆盖等）
// 可以替换实现而不动排序链路。
type DiversitySignal interface {
	Signal(fctx *core.FeedContext, c *core.Candidate) float64
}

// ConstantDiversity 是默认多样性信号：恒定值。
type ConstantDiversity struct {
	Value float64
}

func (d ConstantDiversity) Signal(*core.FeedContext, *core.Candidate) float64 {
	return core.ClampScore(d.Value)
}

// Node 是排序 Node：特征抽取 → 模型打分 → 四路信号混合 → 稳定降序。
//
//	E = min(totalEngagement/1000, 1)
//	R = max(0, 1 − hoursSincePost/168)   一周线性衰减到 0
//	L = 模型输出（相关性代理）
//	D = 多样性信号
//
// finalScore 裁剪到 [0,1] 后写入候选；原因按分数分段覆盖
// （分段是展示启发式，不是因果解释）。
// 同分候选保持输入相对顺序（稳定排序），结果可复现。
type Node struct {
	Extractor *feature.Extractor
	Model     model.Scorer
	Diversity DiversitySignal

	Weights Config

	// pool 大候选集并行打分；nil 时串行
	pool      pond.Pool
	threshold int
}

// NewNode 创建排序 Node。cfg.Parallelism > 0 时启用并行打分池。
func NewNode(extractor *feature.Extractor, scorer model.Scorer, cfg Config) *Node {
	n := &Node{
		Extractor: extractor,
		Model:     scorer,
		Diversity: ConstantDiversity{Value: 0.5},
		Weights:   cfg,
		threshold: 64, // 小候选集串行更快
	}
	if cfg.Parallelism > 0 {
		n.pool = pond.NewPool(cfg.Parallelism)
	}
	return n
}

func (n *Node) Name() string        { return "rank.blended" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindRank }

// Stop 关闭并行打分池并等待在途任务结束。未启用并行时为空操作。
// Stop 之后的 Process 调用会回退到串行路径。
func (n *Node) Stop() {
	if n.pool != nil {
		n.pool.StopAndWait()
		n.pool = nil
	}
}

func (n *Node) Process(
	_ context.Context,
	fctx *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.Model == nil || len(candidates) == 0 {
		return candidates, nil
	}

	if n.pool != nil && len(candidates) >= n.threshold {
		if err := n.scoreParallel(fctx, candidates); err != nil {
			return nil, err
		}
	} else {
		for _, c := range candidates {
			if c == nil {
				continue
			}
			if err := n.score(fctx, c); err != nil {
				return nil, err
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i] == nil {
			return false
		}
		if candidates[j] == nil {
			return true
		}
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// score 给单个候选打分（独立候选，无共享可变状态，可并行）。
func (n *Node) score(fctx *core.FeedContext, c *core.Candidate) error {
	var uctx *core.UserContext
	if fctx != nil {
		uctx = fctx.User
	}
	features := n.Extractor.Extract(c.Post, uctx)

	relevance, err := n.Model.Score(feature.Vector(features))
	if err != nil {
		return err
	}

	engagement := math.Min(float64(c.Post.TotalEngagement())/1000.0, 1.0)
	recency := math.Max(0, 1.0-features["hours_since_post"]/168.0)
	diversity := 0.5
	if n.Diversity != nil {
		diversity = n.Diversity.Signal(fctx, c)
	}

	final := n.Weights.EngagementWeight*engagement +
		n.Weights.RecencyWeight*recency +
		n.Weights.RelevanceWeight*relevance +
		n.Weights.DiversityWeight*diversity

	c.Score = core.ClampScore(final)
	c.Features = features
	c.Reason = bandReason(c.Score)
	c.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
	return nil
}

func (n *Node) scoreParallel(fctx *core.FeedContext, candidates []*core.Candidate) error {
	group := n.pool.NewGroup()
	for _, c := range candidates {
		if c == nil {
			continue
		}
		cand := c
		group.SubmitErr(func() error {
			return n.score(fctx, cand)
		})
	}
	return group.Wait()
}

// bandReason 按分数分段映射展示原因。
func bandReason(score float64) core.Reason {
	switch {
	case score > 0.8:
		return core.ReasonEngagement
	case score > 0.6:
		return core.ReasonRecency
	case score > 0.4:
		return core.ReasonSimilarUsers
	default:
		return core.ReasonDiversity
	}
}
