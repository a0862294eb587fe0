package core

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType 是通知类型（闭合枚举）。
// 频控按 (用户, 类型) 维度生效，新增类型需要同步迁移频控 key。
type NotificationType string

const (
	NotificationLike         NotificationType = "like"
	NotificationRepost       NotificationType = "repost"
	NotificationReply        NotificationType = "reply"
	NotificationMention      NotificationType = "mention"
	NotificationFollow       NotificationType = "follow"
	NotificationTrending     NotificationType = "trending"
	NotificationBreaking     NotificationType = "breaking"
	NotificationPersonalized NotificationType = "personalized"
)

// NotificationPriority 是通知优先级（闭合枚举）。
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// Notification 是通知链路的产物。Score 与 Candidate 的分数共享同一套
// 打分哲学：裁剪到 [0,1] 后再对外暴露。
type Notification struct {
	ID     string
	UserID string
	Type   NotificationType

	Title string
	Body  string

	// 关联对象（可选）
	PostID  string
	ActorID string // 触发该通知的用户（点赞者/回复者等）

	Priority NotificationPriority
	Score    float64

	CreatedAt time.Time
}

// NewNotification 构造一条通知。
func NewNotification(userID string, typ NotificationType) *Notification {
	return &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Priority:  PriorityMedium,
		CreatedAt: time.Now(),
	}
}
