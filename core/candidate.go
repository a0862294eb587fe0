package core

import (
	"time"

	"github.com/rushteam/feedkit/pkg/utils"
)

// Reason 是候选入选原因（闭合枚举）。
// 召回阶段写入来源原因（in_network / out_of_network / trending），
// 排序阶段按分数分段覆盖为展示原因。
type Reason string

const (
	ReasonInNetwork     Reason = "in_network"     // 关注关系内
	ReasonOutOfNetwork  Reason = "out_of_network" // 关注关系外（探索）
	ReasonTrending      Reason = "trending"       // 全局热门
	ReasonSimilarUsers  Reason = "similar_users"  // 相似用户
	ReasonTopicInterest Reason = "topic_interest" // 主题兴趣
	ReasonRecency       Reason = "recency"        // 时新性
	ReasonEngagement    Reason = "engagement"     // 高互动
	ReasonSocialProof   Reason = "social_proof"   // 社交证明
	ReasonDiversity     Reason = "diversity"      // 多样性补充
)

// Candidate 是推荐链路中的统一承载结构：帖子 + 分数 + 原因 + 特征 + 标签。
// Labels 用于解释与观测；Score 用于排序决策。
// 每次链路运行都会新建 Candidate，不做持久化。
type Candidate struct {
	Post     *Post
	Score    float64
	Reason   Reason
	Features map[string]float64
	Labels   map[string]utils.Label

	GeneratedAt time.Time
}

// NewCandidate 以指定来源原因包装一条帖子。
func NewCandidate(post *Post, reason Reason) *Candidate {
	return &Candidate{
		Post:        post,
		Score:       0,
		Reason:      reason,
		Features:    make(map[string]float64),
		Labels:      make(map[string]utils.Label),
		GeneratedAt: time.Now(),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// ClampScore 将分数裁剪到 [0,1]。
// 排序计算过程中分数可以越界，放入 Timeline / Notification 前必须裁剪。
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
