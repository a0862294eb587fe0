package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rushteam/feedkit/core"
)

// LightRanker 是线性打分模型（逻辑回归）。
//
// 预测原理：
//  1. 线性加权求和: z = Bias + sum(Weight_i * Feature_i)
//  2. Sigmoid 变换: P = 1 / (1 + exp(-z))
//
// 输出 P 代表互动概率，范围 (0, 1)。
// 全零权重 + 零偏置时对任意输入输出恰好 0.5（sigmoid(0)），
// 这是冷启动的中性先验。
type LightRanker struct {
	Bias    float64   // 偏置项
	Weights []float64 // 特征权重，下标对齐 feature.Keys
}

// NewLightRanker 创建一个全零权重的线性模型（冷启动）。
func NewLightRanker(dim int) *LightRanker {
	return &LightRanker{Weights: make([]float64, dim)}
}

// LoadLightRanker 从 JSON 文件加载训练好的权重。
// 文件格式：{"bias": 0.1, "weights": [...]}，weights 维度必须等于 dim。
func LoadLightRanker(path string, dim int) (*LightRanker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeModelLoadFailure,
			"light ranker: read weights", err)
	}
	var raw struct {
		Bias    float64   `json:"bias"`
		Weights []float64 `json:"weights"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeModelLoadFailure,
			"light ranker: parse weights", err)
	}
	if len(raw.Weights) != dim {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeModelLoadFailure,
			fmt.Sprintf("light ranker: weight dim %d, expected %d", len(raw.Weights), dim), nil)
	}
	return &LightRanker{Bias: raw.Bias, Weights: raw.Weights}, nil
}

func (m *LightRanker) Name() string { return "light" }

func (m *LightRanker) Score(vector []float64) (float64, error) {
	if len(vector) != len(m.Weights) {
		return 0, fmt.Errorf("light ranker: input dim %d, expected %d", len(vector), len(m.Weights))
	}
	z := m.Bias
	for i, w := range m.Weights {
		z += w * vector[i]
	}
	return Sigmoid(z), nil
}
