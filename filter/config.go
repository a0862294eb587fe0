package filter

import (
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/validate"
)

// Config 是过滤阶段的配置。各子过滤器独立开关，顺序固定：
// content → author → engagement → diversity。
type Config struct {
	EnableContentFiltering    bool `yaml:"enable_content_filtering" json:"enable_content_filtering"`
	EnableUserFiltering       bool `yaml:"enable_user_filtering" json:"enable_user_filtering"`
	EnableEngagementFiltering bool `yaml:"enable_engagement_filtering" json:"enable_engagement_filtering"`
	EnableDiversityFiltering  bool `yaml:"enable_diversity_filtering" json:"enable_diversity_filtering"`

	// MinContentLength 内容过滤的最短字符数（按 rune 计）
	MinContentLength int `yaml:"min_content_length" json:"min_content_length" validate:"gte=0"`

	// DeniedTerms 内容过滤的禁用词表（子串匹配，大小写不敏感）
	DeniedTerms []string `yaml:"denied_terms" json:"denied_terms"`

	// PolicyRules 内容策略的 CEL 表达式（任一命中即过滤）
	PolicyRules []string `yaml:"policy_rules" json:"policy_rules"`

	// MinEngagementThreshold 互动过滤的总互动量下限
	MinEngagementThreshold int `yaml:"min_engagement_threshold" json:"min_engagement_threshold" validate:"gte=0"`
}

// DefaultConfig 返回默认过滤配置：全部开启，互动阈值 0。
func DefaultConfig() Config {
	return Config{
		EnableContentFiltering:    true,
		EnableUserFiltering:       true,
		EnableEngagementFiltering: true,
		EnableDiversityFiltering:  true,
		MinContentLength:          1,
		MinEngagementThreshold:    0,
	}
}

// Validate 校验配置；失败返回 INVALID_CONFIG。
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return core.WrapDomainError(core.ModuleFilter, core.ErrorCodeInvalidConfig,
			"filter config invalid", err)
	}
	return nil
}
