package core

import "context"

// DataSource 是外部数据源的领域接口：帖子与用户数据的唯一读入口。
//
// 设计原则：
//   - 定义在领域层（core），由外部系统/测试夹具实现
//   - 链路对存储形态零假设：图数据库、搜索引擎、内存夹具都可以
//   - 不允许进程级全局实例，必须显式注入，保证测试可以提供确定性数据
//
// 错误约定：
//   - 瞬时故障（超时、连接抖动）返回 Transient 标记的 DomainError，
//     召回阶段据此执行降级策略
//   - 永久故障（权限、参数错误）返回普通错误，直接上抛
type DataSource interface {
	// Name 返回数据源名称（用于日志/观测）
	Name() string

	// FetchInNetwork 拉取关注关系内的帖子（按时间或亲密度由实现决定）
	FetchInNetwork(ctx context.Context, userID string, limit int) ([]*Post, error)

	// FetchOutOfNetwork 拉取关注关系外的探索帖子
	FetchOutOfNetwork(ctx context.Context, userID string, limit int) ([]*Post, error)

	// FetchTrending 拉取全局热门帖子（与具体用户无关）
	FetchTrending(ctx context.Context, limit int) ([]*Post, error)

	// FetchUserContext 加载请求用户的打分上下文
	FetchUserContext(ctx context.Context, userID string) (*UserContext, error)

	// FetchRecentInteractions 拉取用户内容上最近收到的互动
	// （通知链路的 reactive 来源；训练样本构建也会用到）
	FetchRecentInteractions(ctx context.Context, userID string, limit int) ([]*Interaction, error)
}

// NewSourceUnavailable 构造一个瞬时的召回源不可用错误。
func NewSourceUnavailable(origin string, err error) *DomainError {
	e := WrapDomainError(ModuleSource, ErrorCodeSourceUnavailable, "source "+origin+" unavailable", err)
	e.Transient = true
	return e
}
