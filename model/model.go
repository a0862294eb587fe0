package model

import "math"

// Scorer 是打分模型的最小抽象：输入定长特征向量，输出互动概率。
// 输出保证落在 [0,1]（最后一层过 sigmoid）。
//
// 两个内置实现：
//   - LightRanker：线性模型，粗排/低延迟兜底
//   - HeavyRanker：前馈网络，精排
//
// 向量布局由 feature.Keys 固定，模型与抽取器通过它对齐维度。
type Scorer interface {
	Name() string
	Score(vector []float64) (float64, error)
}

// Sigmoid 逻辑函数：σ(x) = 1/(1+e^-x)。
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
