package feature

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// 用户特征的标准 key。数值与抽取器的 user_* 特征对应。
const (
	KeyEngagementRate = "engagement_rate"
	KeyActivityScore  = "activity_score"
)

// StaticUserFeatureService 是内存表实现的用户特征服务，
// 用于测试/开发/冷启动兜底。
type StaticUserFeatureService struct {
	// Features 按用户 ID 预置的特征表
	Features map[string]map[string]float64

	// Default 查不到用户时返回的兜底特征（nil 表示返回空 map）
	Default map[string]float64
}

var _ core.UserFeatureService = (*StaticUserFeatureService)(nil)

func (s *StaticUserFeatureService) Name() string { return "static" }

func (s *StaticUserFeatureService) GetUserFeatures(_ context.Context, userID string) (map[string]float64, error) {
	if f, ok := s.Features[userID]; ok {
		out := make(map[string]float64, len(f))
		for k, v := range f {
			out[k] = v
		}
		return out, nil
	}
	if s.Default != nil {
		out := make(map[string]float64, len(s.Default))
		for k, v := range s.Default {
			out[k] = v
		}
		return out, nil
	}
	return map[string]float64{}, nil
}

func (s *StaticUserFeatureService) Close(context.Context) error { return nil }

// ApplyUserFeatures 把特征服务返回的信号写入 UserContext。
// 未提供的信号保持原值。
func ApplyUserFeatures(uctx *core.UserContext, features map[string]float64) {
	if uctx == nil || features == nil {
		return
	}
	if v, ok := features[KeyEngagementRate]; ok {
		uctx.EngagementRate = core.ClampScore(v)
	}
	if v, ok := features[KeyActivityScore]; ok {
		uctx.ActivityScore = core.ClampScore(v)
	}
}
