package core

import "github.com/rushteam/feedkit/pkg/utils"

// FeedContext 承载一次推荐请求的用户/场景信息，贯穿整个 Pipeline 透传。
type FeedContext struct {
	UserID string
	Scene  string // 场景标识（如 "home_timeline", "notifications"）

	// User 是请求用户的打分上下文（由数据源/特征服务加载）
	User *UserContext

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数（分页游标、设备类型、实验参数等）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (fctx *FeedContext) PutLabel(key string, lbl utils.Label) {
	if fctx.Labels == nil {
		fctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := fctx.Labels[key]; ok {
		fctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	fctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (fctx *FeedContext) GetLabel(key string) (utils.Label, bool) {
	if fctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := fctx.Labels[key]
	return lbl, ok
}
