package rank

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/validate"
)

// Config 是排序阶段的配置：四路信号的线性混合权重。
//
//	finalScore = EngagementWeight·E + RecencyWeight·R + RelevanceWeight·L + DiversityWeight·D
//
// 默认权重之和为 1.0；不强制归一化，偏离 1.0 只产生校验告警，
// 因为调权实验时临时越界是常态。
type Config struct {
	EngagementWeight float64 `yaml:"engagement_weight" json:"engagement_weight" validate:"gte=0,lte=1"`
	RecencyWeight    float64 `yaml:"recency_weight" json:"recency_weight" validate:"gte=0,lte=1"`
	RelevanceWeight  float64 `yaml:"relevance_weight" json:"relevance_weight" validate:"gte=0,lte=1"`
	DiversityWeight  float64 `yaml:"diversity_weight" json:"diversity_weight" validate:"gte=0,lte=1"`

	// EnableMLRanking true 时使用 HeavyRanker 精排，false 时用 LightRanker 粗排
	EnableMLRanking bool `yaml:"enable_ml_ranking" json:"enable_ml_ranking"`

	// Parallelism 大候选集并行打分的 worker 数（0 表示串行打分）
	Parallelism int `yaml:"parallelism" json:"parallelism" validate:"gte=0"`
}

// DefaultConfig 返回默认排序配置。
func DefaultConfig() Config {
	return Config{
		EngagementWeight: 0.4,
		RecencyWeight:    0.3,
		RelevanceWeight:  0.2,
		DiversityWeight:  0.1,
	}
}

// Validate 校验配置；权重和偏离 1.0 记告警不报错。
func (c Config) Validate(logger zerolog.Logger) error {
	if err := validate.Struct(c); err != nil {
		return core.WrapDomainError(core.ModuleRank, core.ErrorCodeInvalidConfig,
			"rank config invalid", err)
	}
	sum := c.EngagementWeight + c.RecencyWeight + c.RelevanceWeight + c.DiversityWeight
	if math.Abs(sum-1.0) > 1e-9 {
		logger.Warn().
			Float64("weight_sum", sum).
			Msg("rank weights do not sum to 1.0, scores are not normalized")
	}
	return nil
}
