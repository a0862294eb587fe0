package filter

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/rushteam/feedkit/core"
)

// Similarity 是近重复判定的可插拔抽象：
// 返回非空 key 的两条帖子若 key 相同，则视为近重复，保留先出现的一条。
//
// 默认实现是精确内容哈希；embedding 相似度等更强的判定
// 可以通过自定义 Similarity 接入，过滤链路不变。
type Similarity interface {
	// Key 返回帖子的相似性签名；返回空串表示不参与去重
	Key(post *core.Post) string
}

// ContentHashSimilarity 是默认相似性实现：规范化内容的 SHA-1。
// 只能识别精确/空白差异级别的重复。
type ContentHashSimilarity struct{}

func (ContentHashSimilarity) Key(post *core.Post) string {
	content := strings.ToLower(strings.Join(strings.Fields(post.Content), " "))
	if content == "" {
		return ""
	}
	sum := sha1.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// DiversityFilter 去除重复候选：
//   - 同一帖子 ID 多路召回时只保留第一条（召回阶段不去重，重复在这里收口）
//   - Similarity 签名相同的近重复只保留第一条
//
// 去重状态是单次运行内的，所以 DiversityFilter 通过 NewSession
// 在每次 FilterNode.Process 时创建独立会话，实例本身无状态、可并发共享。
type DiversityFilter struct {
	// Similarity 为 nil 时使用 ContentHashSimilarity
	Similarity Similarity
}

func (f *DiversityFilter) Name() string { return "filter.diversity" }

// NewSession 创建一次运行的去重会话。
func (f *DiversityFilter) NewSession() Filter {
	sim := f.Similarity
	if sim == nil {
		sim = ContentHashSimilarity{}
	}
	return &diversitySession{
		sim:      sim,
		seenIDs:  make(map[string]bool),
		seenKeys: make(map[string]bool),
	}
}

// ShouldFilter 直接调用时退化为单候选判定（永不过滤）。
// 正常路径经由 NewSession。
func (f *DiversityFilter) ShouldFilter(
	ctx context.Context,
	fctx *core.FeedContext,
	c *core.Candidate,
) (bool, error) {
	return f.NewSession().ShouldFilter(ctx, fctx, c)
}

type diversitySession struct {
	sim      Similarity
	seenIDs  map[string]bool
	seenKeys map[string]bool
}

func (s *diversitySession) Name() string { return "filter.diversity" }

func (s *diversitySession) ShouldFilter(
	_ context.Context,
	_ *core.FeedContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || c.Post == nil {
		return true, nil
	}
	if s.seenIDs[c.Post.ID] {
		return true, nil
	}
	s.seenIDs[c.Post.ID] = true

	if key := s.sim.Key(c.Post); key != "" {
		if s.seenKeys[key] {
			return true, nil
		}
		s.seenKeys[key] = true
	}
	return false, nil
}
