package core

import "context"

// UserFeatureService 是用户特征服务的领域接口。
//
// 特征抽取需要请求用户的行为统计信号（engagement_rate / activity_score），
// 这些信号由外部特征系统维护。实现可以是：
//   - feature.CachedUserFeatureService（内存缓存包装）
//   - feature.FeastUserFeatureService（Feast 在线特征库）
//   - 测试夹具
type UserFeatureService interface {
	// Name 返回特征服务名称（用于日志/监控）
	Name() string

	// GetUserFeatures 获取用户特征，key 为特征名（如 "engagement_rate"）
	GetUserFeatures(ctx context.Context, userID string) (map[string]float64, error)

	// Close 关闭特征服务，释放资源
	Close(ctx context.Context) error
}
