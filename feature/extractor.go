package feature

import (
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/conv"
)

// Keys 是特征向量的固定 key 顺序。
//
// 打分模型消费的是定长向量，向量通过此顺序从特征 map 投影得到，
// 所以顺序一旦对外发布就不能调整，只能追加。
// 四个特征族：互动 / 时间 / 内容 / 作者与用户。
var Keys = []string{
	// 互动特征
	"like_count",
	"repost_count",
	"reply_count",
	"quote_count",
	// 时间特征
	"hours_since_post",
	"is_recent",
	// 内容特征
	"content_length",
	"has_media",
	"hashtag_count",
	"mention_count",
	// 作者/用户特征
	"author_followers",
	"author_verified",
	"user_engagement_rate",
	"user_activity_score",
}

// Extractor 把 (帖子, 用户上下文) 抽取成固定维度的命名特征集。
//
// 约定：
//   - 所有 key 恒定存在，缺失输入置 0，输出维度与输入无关
//   - 计数类负值在边界处裁剪为 0（负计数无意义），绝不产出 NaN/Inf
//   - 纯函数，无 I/O；作者粉丝数等外部信号由调用方预先装载到输入上
type Extractor struct {
	// AuthorResolver 按作者 ID 解析作者资料（粉丝数/认证），可选。
	// 缺省时 author_* 特征置 0。
	AuthorResolver func(authorID string) *core.User

	// RecencyWindow 判定 is_recent 的窗口，默认 24h
	RecencyWindow time.Duration

	// Now 当前时间来源，默认 time.Now（测试注入固定时钟）
	Now func() time.Time
}

// NewExtractor 创建特征抽取器。
func NewExtractor() *Extractor {
	return &Extractor{
		RecencyWindow: 24 * time.Hour,
		Now:           time.Now,
	}
}

func (e *Extractor) Name() string { return "post_features" }

// Extract 抽取特征 map，key 集合恒等于 Keys。
func (e *Extractor) Extract(post *core.Post, uctx *core.UserContext) map[string]float64 {
	features := make(map[string]float64, len(Keys))
	for _, k := range Keys {
		features[k] = 0
	}
	if post == nil {
		return features
	}

	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}
	window := e.RecencyWindow
	if window <= 0 {
		window = 24 * time.Hour
	}

	// 互动特征
	features["like_count"] = nonNegative(float64(post.LikeCount))
	features["repost_count"] = nonNegative(float64(post.RepostCount))
	features["reply_count"] = nonNegative(float64(post.ReplyCount))
	features["quote_count"] = nonNegative(float64(post.QuoteCount))

	// 时间特征
	hours := now.Sub(post.CreatedAt).Hours()
	features["hours_since_post"] = nonNegative(hours)
	features["is_recent"] = conv.BoolToFloat(hours >= 0 && hours < window.Hours())

	// 内容特征
	features["content_length"] = float64(len([]rune(post.Content)))
	features["has_media"] = conv.BoolToFloat(len(post.MediaURLs) > 0)
	features["hashtag_count"] = float64(len(post.Hashtags))
	features["mention_count"] = float64(len(post.Mentions))

	// 作者特征
	if e.AuthorResolver != nil {
		if author := e.AuthorResolver(post.AuthorID); author != nil {
			features["author_followers"] = nonNegative(float64(author.FollowerCount))
			features["author_verified"] = conv.BoolToFloat(author.Verified)
		}
	}

	// 用户特征
	if uctx != nil {
		features["user_engagement_rate"] = core.ClampScore(uctx.EngagementRate)
		features["user_activity_score"] = core.ClampScore(uctx.ActivityScore)
	}

	return features
}

// Vector 将特征 map 按 Keys 的固定顺序投影为定长向量。
// 缺失 key 置 0，保证模型输入维度稳定。
func Vector(features map[string]float64) []float64 {
	vec := make([]float64, len(Keys))
	for i, k := range Keys {
		vec[i] = features[k]
	}
	return vec
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
