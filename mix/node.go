package mix

import (
	"context"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// Node 是混排 Node：把排好序的候选截断成有界时间线，保持排名顺序。
//
// 通常在排序（Rank）节点之后使用：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        sourceNode,
//	        filterNode,
//	        rankNode,
//	        &mix.Node{Config: mix.DefaultConfig()}, // 截取 Top 20
//	    },
//	}
//
// EnableDiversity 开启时额外执行同作者连发上限；
// EnableRecency / EnableEngagement 是预留开关，当前不改变结果。
type Node struct {
	Config Config
}

func (n *Node) Name() string        { return "mix.timeline" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindMix }

func (n *Node) Process(
	_ context.Context,
	_ *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	out := candidates
	if n.Config.EnableDiversity && n.Config.MaxConsecutiveAuthor > 0 {
		out = capAuthorRuns(out, n.Config.MaxConsecutiveAuthor)
	}

	limit := n.Config.TimelineLimit
	if limit <= 0 || len(out) <= limit {
		return out, nil
	}
	return out[:limit], nil
}

// capAuthorRuns 限制同一作者的连续出现条数：
// 超出连发上限的候选整体后移（保持彼此相对顺序），不丢弃。
func capAuthorRuns(candidates []*core.Candidate, maxRun int) []*core.Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	out := make([]*core.Candidate, 0, len(candidates))
	deferred := make([]*core.Candidate, 0)

	lastAuthor := ""
	run := 0
	for _, c := range candidates {
		if c == nil || c.Post == nil {
			continue
		}
		if c.Post.AuthorID == lastAuthor {
			if run >= maxRun {
				deferred = append(deferred, c)
				continue
			}
			run++
		} else {
			lastAuthor = c.Post.AuthorID
			run = 1
		}
		out = append(out, c)
	}

	return append(out, deferred...)
}
