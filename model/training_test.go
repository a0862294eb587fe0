package model

import (
	"math"
	"testing"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/feature"
)

func TestNewExample(t *testing.T) {
	features := map[string]float64{"like_count": 3}

	pos := NewExample(features, &core.Interaction{Weight: 0.8})
	if pos.Label != 0.8 {
		t.Errorf("label = %v, want 0.8", pos.Label)
	}
	if len(pos.Vector) != len(feature.Keys) {
		t.Errorf("vector length %d, want %d", len(pos.Vector), len(feature.Keys))
	}

	// 越界权重裁剪
	clamped := NewExample(features, &core.Interaction{Weight: 1.7})
	if clamped.Label != 1.0 {
		t.Errorf("label = %v, want 1.0", clamped.Label)
	}

	// 负样本（曝光未互动）
	neg := NewExample(features, nil)
	if neg.Label != 0 {
		t.Errorf("label = %v, want 0", neg.Label)
	}
}

func TestLogLossAndAccuracy(t *testing.T) {
	m := NewLightRanker(len(feature.Keys)) // 对所有输入预测 0.5

	vec := make([]float64, len(feature.Keys))
	examples := []Example{
		{Vector: vec, Label: 1},
		{Vector: vec, Label: 0},
	}

	loss, err := LogLoss(m, examples)
	if err != nil {
		t.Fatal(err)
	}
	// 恒 0.5 的预测：logloss = -ln(0.5) ≈ 0.693
	if math.Abs(loss-math.Ln2) > 1e-9 {
		t.Errorf("logloss = %v, want ln(2)", loss)
	}

	acc, err := Accuracy(m, examples, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	// p=0.5 >= 0.5 → 预测正类：正样本命中，负样本落空
	if acc != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", acc)
	}

	if loss, _ := LogLoss(m, nil); loss != 0 {
		t.Errorf("empty set logloss = %v", loss)
	}
}
