// Package notify 实现通知链路：与时间线链路结构平行的
// 生成 → 打分 → 排序 → 截断流水线，外加按类型的下发频控。
package notify

import (
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/validate"
)

// Config 是通知链路的配置。
type Config struct {
	// MaxNotifications 单次调用最多返回的通知数
	MaxNotifications int `yaml:"max_notifications" json:"max_notifications" validate:"gt=0"`

	// MinScoreThreshold 分数下限，低于该值的候选通知直接丢弃
	MinScoreThreshold float64 `yaml:"min_score_threshold" json:"min_score_threshold" validate:"gte=0,lte=1"`

	// MaxFrequency 同一 (用户, 类型) 两次下发之间的最小间隔
	MaxFrequency time.Duration `yaml:"max_frequency" json:"max_frequency" validate:"gt=0"`

	// GeneratorTimeout 单个来源的生成超时（0 表示不限制）
	GeneratorTimeout time.Duration `yaml:"generator_timeout" json:"generator_timeout" validate:"gte=0"`
}

// DefaultConfig 返回默认通知配置。
func DefaultConfig() Config {
	return Config{
		MaxNotifications:  10,
		MinScoreThreshold: 0.3,
		MaxFrequency:      time.Hour,
		GeneratorTimeout:  2 * time.Second,
	}
}

// Validate 校验配置。
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return core.WrapDomainError(core.ModuleNotify, core.ErrorCodeInvalidConfig,
			"notify config invalid", err)
	}
	return nil
}
