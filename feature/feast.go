package feature

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/feedkit/core"
)

// FeastUserFeatureService 是基于 Feast 在线特征库的用户特征服务。
//
// Feast 是一个开源的 Feature Store，在线存储提供实时特征服务。
// 离线任务把用户互动率/活跃度等统计信号物化到在线存储，
// 本服务在打分前取回这些信号。
//
// 工程特征：
//   - 实时性：优秀（gRPC 低延迟）
//   - 冷启动：查不到的用户返回零值特征，不报错
//
// 参考：https://github.com/feast-dev/feast
type FeastUserFeatureService struct {
	client  *feastsdk.GrpcClient
	project string

	// entityName 用户实体名（如 "user_id"）
	entityName string

	// featureRefs 要取回的特征引用（如 "user_stats:engagement_rate"）
	// 取回后按冒号后的短名写入特征 map
	featureRefs []string
}

// NewFeastUserFeatureService 创建 Feast 用户特征服务。
// featureRefs 为空时使用默认的 user_stats 特征视图。
func NewFeastUserFeatureService(host string, port int, project, entityName string, featureRefs []string) (*FeastUserFeatureService, error) {
	if port == 0 {
		port = 6565 // Feast 默认 gRPC 端口
	}
	if entityName == "" {
		entityName = "user_id"
	}
	if len(featureRefs) == 0 {
		featureRefs = []string{
			"user_stats:" + KeyEngagementRate,
			"user_stats:" + KeyActivityScore,
		}
	}

	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast grpc client: %w", err)
	}

	return &FeastUserFeatureService{
		client:      client,
		project:     project,
		entityName:  entityName,
		featureRefs: featureRefs,
	}, nil
}

var _ core.UserFeatureService = (*FeastUserFeatureService)(nil)

func (s *FeastUserFeatureService) Name() string { return "feast" }

// GetUserFeatures 取回单个用户的在线特征。
// 特征名取特征引用冒号后的短名（"user_stats:engagement_rate" → "engagement_rate"）。
func (s *FeastUserFeatureService) GetUserFeatures(ctx context.Context, userID string) (map[string]float64, error) {
	if userID == "" {
		return map[string]float64{}, nil
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: s.featureRefs,
		Entities: []feastsdk.Row{
			{s.entityName: feastsdk.StrVal(userID)},
		},
		Project: s.project,
	}

	resp, err := s.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return map[string]float64{}, nil
	}

	features := make(map[string]float64, len(s.featureRefs))
	row := rows[0]
	for _, ref := range s.featureRefs {
		name := shortFeatureName(ref)
		val, ok := row[ref]
		if !ok {
			// 部分 Feast 版本按短名返回
			val, ok = row[name]
		}
		if !ok || val == nil {
			continue
		}
		if f, ok := valueToFloat64(val); ok {
			features[name] = f
		}
	}
	return features, nil
}

func (s *FeastUserFeatureService) Close(context.Context) error {
	// 官方 SDK 没有显式的 Close，gRPC 连接由库管理
	s.client = nil
	return nil
}

// shortFeatureName 取特征引用冒号后的短名。
func shortFeatureName(ref string) string {
	for i := len(ref) - 1; i >= 0; i-- {
		if ref[i] == ':' {
			return ref[i+1:]
		}
	}
	return ref
}

// valueToFloat64 将 Feast 的 protobuf Value 转为 float64。
func valueToFloat64(val *feasttypes.Value) (float64, bool) {
	switch v := val.Val.(type) {
	case *feasttypes.Value_DoubleVal:
		return v.DoubleVal, true
	case *feasttypes.Value_FloatVal:
		return float64(v.FloatVal), true
	case *feasttypes.Value_Int64Val:
		return float64(v.Int64Val), true
	case *feasttypes.Value_Int32Val:
		return float64(v.Int32Val), true
	case *feasttypes.Value_BoolVal:
		if v.BoolVal {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
