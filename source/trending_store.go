package source

import (
	"context"
	"encoding/json"

	"github.com/rushteam/feedkit/core"
)

// StoreTrending 是存储后端的热门来源：离线任务把热度榜维护在
// 有序集合里（member 为帖子 ID，score 为热度），召回时取 TopN 再解析帖子。
//
// - 如果 Store 实现了 KeyValueStore，优先使用 ZRange（按热度降序）
// - 否则从普通 key 读取 JSON 数组形式的 ID 列表
// - 解析不到的 ID 跳过，不报错
type StoreTrending struct {
	Store core.Store
	Key   string // 榜单 key，例如 "trending:posts"

	// Resolve 按 ID 批量解析帖子（通常由 DataSource 适配）
	Resolve func(ctx context.Context, ids []string) ([]*core.Post, error)
}

func (o *StoreTrending) Name() string        { return "source.trending_store" }
func (o *StoreTrending) Reason() core.Reason { return core.ReasonTrending }

func (o *StoreTrending) Fetch(ctx context.Context, _ *core.FeedContext, limit int) ([]*core.Post, error) {
	if o.Store == nil || o.Key == "" || o.Resolve == nil || limit <= 0 {
		return nil, nil
	}

	var ids []string
	if kv, ok := o.Store.(core.KeyValueStore); ok {
		members, err := kv.ZRange(ctx, o.Key, 0, int64(limit)-1)
		if err != nil {
			return nil, core.NewSourceUnavailable(o.Name(), err)
		}
		ids = members
	} else {
		data, err := o.Store.Get(ctx, o.Key)
		if err != nil {
			if core.IsStoreNotFound(err) {
				return nil, nil
			}
			return nil, core.NewSourceUnavailable(o.Name(), err)
		}
		if err := json.Unmarshal(data, &ids); err != nil {
			return nil, core.NewSourceUnavailable(o.Name(), err)
		}
		if len(ids) > limit {
			ids = ids[:limit]
		}
	}

	if len(ids) == 0 {
		return nil, nil
	}
	return o.Resolve(ctx, ids)
}
