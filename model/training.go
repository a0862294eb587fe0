package model

import (
	"context"
	"math"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/feature"
)

// 训练与评估契约。
//
// feedkit 不做在线训练：训练发生在离线系统，产物通过
// LoadLightRanker / LoadHeavyRanker 进入在线链路。
// 这里只定义双方共享的样本形态与评估口径。

// Example 是一条训练/评估样本：定长特征向量 + 互动标签。
// 标签取 Interaction.Weight（行为强度，[0,1]），
// 曝光未互动的负样本标签为 0。
type Example struct {
	Vector []float64
	Label  float64
}

// NewExample 由特征 map 和互动记录构建样本。
// interaction 为 nil 表示负样本（曝光未互动）。
func NewExample(features map[string]float64, interaction *core.Interaction) Example {
	label := 0.0
	if interaction != nil {
		label = core.ClampScore(interaction.Weight)
	}
	return Example{
		Vector: feature.Vector(features),
		Label:  label,
	}
}

// Trainer 是离线训练器的契约：消费样本，产出可服务的 Scorer。
// 在线链路不提供实现。
type Trainer interface {
	Train(ctx context.Context, examples []Example) (Scorer, error)
}

// LogLoss 计算模型在样本集上的对数损失（越小越好）。
// 预测值裁剪到 (eps, 1-eps) 避免 log(0)。
func LogLoss(s Scorer, examples []Example) (float64, error) {
	if len(examples) == 0 {
		return 0, nil
	}
	const eps = 1e-12
	sum := 0.0
	for _, ex := range examples {
		p, err := s.Score(ex.Vector)
		if err != nil {
			return 0, err
		}
		p = math.Min(math.Max(p, eps), 1-eps)
		sum += -(ex.Label*math.Log(p) + (1-ex.Label)*math.Log(1-p))
	}
	return sum / float64(len(examples)), nil
}

// Accuracy 计算按 threshold 二值化后的命中率。
// 标签按 0.5 二值化对齐。
func Accuracy(s Scorer, examples []Example, threshold float64) (float64, error) {
	if len(examples) == 0 {
		return 0, nil
	}
	hit := 0
	for _, ex := range examples {
		p, err := s.Score(ex.Vector)
		if err != nil {
			return 0, err
		}
		if (p >= threshold) == (ex.Label >= 0.5) {
			hit++
		}
	}
	return float64(hit) / float64(len(examples)), nil
}
