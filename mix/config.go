package mix

import (
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/validate"
)

// Config 是混排阶段的配置。
// EnableRecency / EnableEngagement 是预留的重排开关，当前为 no-op；
// EnableDiversity 启用同作者连发上限。
type Config struct {
	// TimelineLimit 时间线长度上限
	TimelineLimit int `yaml:"timeline_limit" json:"timeline_limit" validate:"gte=1"`

	EnableDiversity  bool `yaml:"enable_diversity" json:"enable_diversity"`
	EnableRecency    bool `yaml:"enable_recency" json:"enable_recency"`
	EnableEngagement bool `yaml:"enable_engagement" json:"enable_engagement"`

	// MaxConsecutiveAuthor 同一作者最多连续出现条数（EnableDiversity 时生效）
	MaxConsecutiveAuthor int `yaml:"max_consecutive_author" json:"max_consecutive_author" validate:"gte=0"`
}

// DefaultConfig 返回默认混排配置。
func DefaultConfig() Config {
	return Config{
		TimelineLimit:        20,
		EnableDiversity:      false,
		EnableRecency:        false,
		EnableEngagement:     false,
		MaxConsecutiveAuthor: 2,
	}
}

// Validate 校验配置；失败返回 INVALID_CONFIG。
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return core.WrapDomainError(core.ModuleMix, core.ErrorCodeInvalidConfig,
			"mix config invalid", err)
	}
	return nil
}
