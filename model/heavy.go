package model

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/rushteam/feedkit/core"
)

// Activation 是层激活函数（闭合枚举）。
type Activation string

const (
	ActivationReLU    Activation = "relu"
	ActivationSigmoid Activation = "sigmoid"
	ActivationTanh    Activation = "tanh"
	ActivationLinear  Activation = "linear"
)

func (a Activation) apply(x float64) float64 {
	switch a {
	case ActivationReLU:
		if x > 0 {
			return x
		}
		return 0
	case ActivationSigmoid:
		return Sigmoid(x)
	case ActivationTanh:
		return math.Tanh(x)
	default: // linear
		return x
	}
}

// HeavyRanker 是前馈神经网络打分模型（精排）。
//
// 每层计算 output_i = activation(bias_i + Σ_j weight_ij * input_j)，
// 最后一层单神经元输出过 sigmoid 得到互动概率。
//
// 工程特征：
//   - 实时性：好（本地推理，无 RPC）
//   - 特征交互：强（隐层自动学习交叉）
//   - 可解释性：弱（黑盒模型）
//
// 权重既支持种子化的随机初始化（冷启动，可复现），
// 也支持加载外部训练产物（热启动），两种方式打分路径完全一致。
type HeavyRanker struct {
	// Sizes 各隐层与输出层的神经元数量，例如 [32, 16, 1]
	Sizes []int

	// Hidden 隐层激活函数（输出层固定 sigmoid）
	Hidden Activation

	// Weights[layer][neuron][input]，Biases[layer][neuron]
	Weights [][][]float64
	Biases  [][]float64

	inputDim int
}

// NewHeavyRanker 以种子化的小范围均匀分布初始化网络（可复现）。
// hidden 为各隐层大小，输出层固定为 1。
func NewHeavyRanker(inputDim int, hidden []int, activation Activation, seed int64) *HeavyRanker {
	if len(hidden) == 0 {
		hidden = []int{32, 16} // 默认结构
	}
	if activation == "" {
		activation = ActivationReLU
	}

	sizes := append(append([]int{}, hidden...), 1)
	m := &HeavyRanker{
		Sizes:    sizes,
		Hidden:   activation,
		Weights:  make([][][]float64, len(sizes)),
		Biases:   make([][]float64, len(sizes)),
		inputDim: inputDim,
	}

	rng := rand.New(rand.NewSource(seed))
	prev := inputDim
	for l, size := range sizes {
		m.Weights[l] = make([][]float64, size)
		m.Biases[l] = make([]float64, size)
		for j := 0; j < size; j++ {
			m.Weights[l][j] = make([]float64, prev)
			for k := 0; k < prev; k++ {
				// 小范围均匀初始化 [-0.05, 0.05)
				m.Weights[l][j][k] = rng.Float64()*0.1 - 0.05
			}
		}
		prev = size
	}
	return m
}

// heavyWeightsFile 是外部训练产物的 JSON 形态。
type heavyWeightsFile struct {
	Sizes   []int         `json:"sizes"`
	Hidden  Activation    `json:"hidden"`
	Weights [][][]float64 `json:"weights"`
	Biases  [][]float64   `json:"biases"`
}

// LoadHeavyRanker 加载外部训练好的网络权重（热启动）。
// 形状不一致返回 MODEL_LOAD_FAILURE。
func LoadHeavyRanker(path string, inputDim int) (*HeavyRanker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeModelLoadFailure,
			"heavy ranker: read weights", err)
	}
	var raw heavyWeightsFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeModelLoadFailure,
			"heavy ranker: parse weights", err)
	}

	m := &HeavyRanker{
		Sizes:    raw.Sizes,
		Hidden:   raw.Hidden,
		Weights:  raw.Weights,
		Biases:   raw.Biases,
		inputDim: inputDim,
	}
	if err := m.validate(); err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeModelLoadFailure,
			"heavy ranker: malformed weights", err)
	}
	return m, nil
}

// validate 校验网络形状自洽。
func (m *HeavyRanker) validate() error {
	if len(m.Sizes) == 0 {
		return fmt.Errorf("no layers")
	}
	if m.Sizes[len(m.Sizes)-1] != 1 {
		return fmt.Errorf("output layer must have 1 neuron, got %d", m.Sizes[len(m.Sizes)-1])
	}
	if len(m.Weights) != len(m.Sizes) || len(m.Biases) != len(m.Sizes) {
		return fmt.Errorf("layer count mismatch: sizes=%d weights=%d biases=%d",
			len(m.Sizes), len(m.Weights), len(m.Biases))
	}
	switch m.Hidden {
	case ActivationReLU, ActivationSigmoid, ActivationTanh, ActivationLinear, "":
	default:
		return fmt.Errorf("unknown activation %q", m.Hidden)
	}
	prev := m.inputDim
	for l, size := range m.Sizes {
		if len(m.Weights[l]) != size || len(m.Biases[l]) != size {
			return fmt.Errorf("layer %d: neuron count mismatch", l)
		}
		for j := 0; j < size; j++ {
			if len(m.Weights[l][j]) != prev {
				return fmt.Errorf("layer %d neuron %d: input dim %d, expected %d",
					l, j, len(m.Weights[l][j]), prev)
			}
		}
		prev = size
	}
	return nil
}

func (m *HeavyRanker) Name() string { return "heavy" }

// Score 前向传播，输出互动概率。
func (m *HeavyRanker) Score(vector []float64) (float64, error) {
	if len(vector) != m.inputDim {
		return 0, fmt.Errorf("heavy ranker: input dim %d, expected %d", len(vector), m.inputDim)
	}

	current := vector
	last := len(m.Sizes) - 1
	for l, size := range m.Sizes {
		next := make([]float64, size)
		for j := 0; j < size; j++ {
			sum := m.Biases[l][j]
			for k, v := range current {
				sum += m.Weights[l][j][k] * v
			}
			if l == last {
				next[j] = sum // 输出层不在这里激活
			} else {
				next[j] = m.Hidden.apply(sum)
			}
		}
		current = next
	}

	return Sigmoid(current[0]), nil
}
