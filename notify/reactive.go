package notify

import (
	"context"
	"time"

	"github.com/rushteam/feedkit/core"
)

// reactiveWindow 是互动通知的时效窗口：超过该时长的互动不再提醒。
const reactiveWindow = 24 * time.Hour

// Reactive 从用户内容上最近收到的互动生成通知
// （有人点赞/转发/回复了你的帖子）。
type Reactive struct {
	Data core.DataSource

	// Now 可注入以便测试，nil 时使用 time.Now
	Now func() time.Time
}

func (g *Reactive) Name() string { return "notify.reactive" }

func (g *Reactive) Generate(
	ctx context.Context,
	fctx *core.FeedContext,
	limit int,
) ([]*core.Notification, error) {
	interactions, err := g.Data.FetchRecentInteractions(ctx, fctx.UserID, limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}

	out := make([]*core.Notification, 0, len(interactions))
	for _, in := range interactions {
		if in == nil {
			continue
		}
		typ, ok := notificationTypeFor(in.Type)
		if !ok {
			// view/click/dwell 等隐式行为不值得打扰用户
			continue
		}

		n := core.NewNotification(fctx.UserID, typ)
		n.Title, n.Body = reactiveCopy(typ)
		n.PostID = in.PostID
		n.ActorID = in.UserID
		n.Priority = priorityFor(typ)
		n.Score = reactiveScore(in, typ, now)
		out = append(out, n)
	}
	return out, nil
}

// notificationTypeFor 把互动类型映射为通知类型；
// 隐式行为（浏览/点击/停留/滚动/收藏/分享）返回 ok=false。
func notificationTypeFor(t core.InteractionType) (core.NotificationType, bool) {
	switch t {
	case core.InteractionLike:
		return core.NotificationLike, true
	case core.InteractionRepost, core.InteractionQuote:
		return core.NotificationRepost, true
	case core.InteractionReply:
		return core.NotificationReply, true
	default:
		return "", false
	}
}

func priorityFor(typ core.NotificationType) core.NotificationPriority {
	switch typ {
	case core.NotificationReply, core.NotificationMention:
		return core.PriorityHigh
	case core.NotificationRepost:
		return core.PriorityMedium
	case core.NotificationBreaking:
		return core.PriorityUrgent
	default:
		return core.PriorityLow
	}
}

// reactiveScore 综合互动强度与时效：
//
//	score = base × max(0, 1 − age/24h)
//
// base 优先取互动自带的 Weight，缺省按类型给经验值
// （回复 > 转发 > 点赞）。
func reactiveScore(in *core.Interaction, typ core.NotificationType, now time.Time) float64 {
	base := in.Weight
	if base <= 0 {
		switch typ {
		case core.NotificationReply:
			base = 0.9
		case core.NotificationRepost:
			base = 0.7
		default:
			base = 0.5
		}
	}

	age := now.Sub(in.CreatedAt)
	decay := 1 - age.Hours()/reactiveWindow.Hours()
	if decay < 0 {
		decay = 0
	}
	return core.ClampScore(base * decay)
}

func reactiveCopy(typ core.NotificationType) (title, body string) {
	switch typ {
	case core.NotificationLike:
		return "New like", "Someone liked your post"
	case core.NotificationRepost:
		return "New repost", "Someone reposted your post"
	case core.NotificationReply:
		return "New reply", "Someone replied to your post"
	default:
		return "New activity", "There is new activity on your post"
	}
}
