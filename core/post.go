package core

import "time"

// Post 是推荐链路的基础内容单元（一条帖子）。
// 由外部摄入层创建，进入链路后只读；所有阶段共享同一份实例。
type Post struct {
	ID       string
	AuthorID string
	Content  string

	// 互动计数（按类型拆分，Engagement 过滤与打分都依赖它们）
	LikeCount   int
	RepostCount int
	ReplyCount  int
	QuoteCount  int

	// 转发标记
	IsRepost       bool
	OriginalPostID string // IsRepost 为 true 时指向原帖

	// 内容附属信息
	MediaURLs []string
	Hashtags  []string
	Mentions  []string

	// 可选标注（摄入层可能留空）
	Language  string
	Sentiment string

	CreatedAt time.Time
}

// TotalEngagement 返回帖子的总互动量（like + repost + reply + quote）。
func (p *Post) TotalEngagement() int {
	return p.LikeCount + p.RepostCount + p.ReplyCount + p.QuoteCount
}

// Age 返回帖子发布至今的时长。
func (p *Post) Age(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}

// InteractionType 是用户对帖子的动作类型（闭合枚举）。
type InteractionType string

const (
	InteractionLike     InteractionType = "like"
	InteractionRepost   InteractionType = "repost"
	InteractionReply    InteractionType = "reply"
	InteractionQuote    InteractionType = "quote"
	InteractionBookmark InteractionType = "bookmark"
	InteractionShare    InteractionType = "share"
	InteractionView     InteractionType = "view"
	InteractionClick    InteractionType = "click"
	InteractionDwell    InteractionType = "dwell"
	InteractionScroll   InteractionType = "scroll"
)

// Interaction 是一次用户行为记录，仅作为训练/评估信号使用，
// 在线打分链路不依赖它。
type Interaction struct {
	UserID string
	PostID string
	Type   InteractionType

	// Weight 表达行为强度，取值 [0,1]（例如 dwell 时长归一化后的值）
	Weight float64

	CreatedAt time.Time
}
