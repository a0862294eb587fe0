package source

import (
	"fmt"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/validate"
)

// FailurePolicy 决定某个召回源失败时整条链路的行为。
// 这是显式的配置决策，不做静默选择。
type FailurePolicy string

const (
	// PolicyDegrade 降级：用剩余召回源的结果继续，失败计入 ErrorRate 并记日志（默认）
	PolicyDegrade FailurePolicy = "degrade"
	// PolicyFail 失败：任一召回源失败则整次 GenerateTimeline 失败
	PolicyFail FailurePolicy = "fail"
)

// Config 是召回阶段的配置。
// 三路权重决定各来源的候选配额：limit_i = round(weight_i × MaxCandidates)，
// 权重之和必须 ≤ 1.0。
type Config struct {
	MaxCandidates int `yaml:"max_candidates" json:"max_candidates" validate:"gte=1"`

	InNetworkWeight    float64 `yaml:"in_network_weight" json:"in_network_weight" validate:"gte=0,lte=1"`
	OutOfNetworkWeight float64 `yaml:"out_of_network_weight" json:"out_of_network_weight" validate:"gte=0,lte=1"`
	TrendingWeight     float64 `yaml:"trending_weight" json:"trending_weight" validate:"gte=0,lte=1"`

	// FailurePolicy degrade / fail
	FailurePolicy FailurePolicy `yaml:"failure_policy" json:"failure_policy" validate:"oneof=degrade fail"`

	// OriginTimeout 单个召回源的超时时间；慢源独立超时，
	// 按 FailurePolicy 处理，不拖死整条链路
	OriginTimeout time.Duration `yaml:"origin_timeout" json:"origin_timeout"`
}

// DefaultConfig 返回默认召回配置。
func DefaultConfig() Config {
	return Config{
		MaxCandidates:      1000,
		InNetworkWeight:    0.5,
		OutOfNetworkWeight: 0.3,
		TrendingWeight:     0.2,
		FailurePolicy:      PolicyDegrade,
		OriginTimeout:      2 * time.Second,
	}
}

// Validate 校验配置；失败返回 INVALID_CONFIG。
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return core.WrapDomainError(core.ModuleSource, core.ErrorCodeInvalidConfig,
			"source config invalid", err)
	}
	sum := c.InNetworkWeight + c.OutOfNetworkWeight + c.TrendingWeight
	if sum > 1.0+1e-9 {
		return core.WrapDomainError(core.ModuleSource, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("source weights sum %.3f exceeds 1.0", sum), nil)
	}
	if c.OriginTimeout < 0 {
		return core.WrapDomainError(core.ModuleSource, core.ErrorCodeInvalidConfig,
			"origin timeout must not be negative", nil)
	}
	return nil
}
