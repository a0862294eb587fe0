package notify

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Generator 是一路通知来源：从外部数据生成候选通知。
//
// 约定：
//   - 产出的通知 Score 取值 [0,1]（Node 会再做一次裁剪兜底）
//   - 失败返回 error，由 Node 按降级策略吸收（通知是尽力而为的链路）
//   - 实现必须无状态或只持有不可变配置，支持并发调用
type Generator interface {
	// Name 返回来源名称（用于日志/观测）
	Name() string

	// Generate 为目标用户生成最多 limit 条候选通知
	Generate(ctx context.Context, fctx *core.FeedContext, limit int) ([]*core.Notification, error)
}
