package model

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/feedkit/core"
)

func TestLightRanker_ZeroWeightsNeutralPrior(t *testing.T) {
	m := NewLightRanker(4)

	// 全零权重 + 零偏置：任意输入输出恰好 0.5
	inputs := [][]float64{
		{0, 0, 0, 0},
		{1, 2, 3, 4},
		{-100, 50, 0, 999},
	}
	for _, in := range inputs {
		got, err := m.Score(in)
		if err != nil {
			t.Fatalf("Score(%v): %v", in, err)
		}
		if got != 0.5 {
			t.Errorf("Score(%v) = %v, want exactly 0.5", in, got)
		}
	}
}

func TestLightRanker_DimensionMismatch(t *testing.T) {
	m := NewLightRanker(4)
	if _, err := m.Score([]float64{1, 2}); err == nil {
		t.Fatal("expected error on dimension mismatch")
	}
}

func TestLightRanker_WeightedScore(t *testing.T) {
	m := &LightRanker{Bias: 1, Weights: []float64{2, -1}}
	got, err := m.Score([]float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	want := Sigmoid(1 + 2 - 1) // σ(2)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestLoadLightRanker(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, v any) string {
		path := filepath.Join(dir, name)
		data, _ := json.Marshal(v)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("valid weights", func(t *testing.T) {
		path := write("ok.json", map[string]any{
			"bias":    0.5,
			"weights": []float64{0.1, 0.2},
		})
		m, err := LoadLightRanker(path, 2)
		if err != nil {
			t.Fatal(err)
		}
		if m.Bias != 0.5 || len(m.Weights) != 2 {
			t.Errorf("loaded %+v", m)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		path := write("dim.json", map[string]any{
			"bias":    0.0,
			"weights": []float64{0.1},
		})
		_, err := LoadLightRanker(path, 2)
		if !core.IsModelLoadFailure(err) {
			t.Errorf("want model load failure, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadLightRanker(filepath.Join(dir, "absent.json"), 2)
		if !core.IsModelLoadFailure(err) {
			t.Errorf("want model load failure, got %v", err)
		}
	})
}

func TestHeavyRanker_SeededDeterminism(t *testing.T) {
	a := NewHeavyRanker(4, []int{8, 4}, ActivationReLU, 7)
	b := NewHeavyRanker(4, []int{8, 4}, ActivationReLU, 7)

	in := []float64{0.5, 1, 0, 2}
	sa, err := a.Score(in)
	if err != nil {
		t.Fatal(err)
	}
	sb, err := b.Score(in)
	if err != nil {
		t.Fatal(err)
	}
	if sa != sb {
		t.Errorf("same seed must give identical scores: %v vs %v", sa, sb)
	}

	c := NewHeavyRanker(4, []int{8, 4}, ActivationReLU, 8)
	sc, err := c.Score(in)
	if err != nil {
		t.Fatal(err)
	}
	if sa == sc {
		t.Errorf("different seeds should give different scores")
	}
}

func TestHeavyRanker_OutputRange(t *testing.T) {
	m := NewHeavyRanker(3, []int{16, 8}, ActivationTanh, 1)

	inputs := [][]float64{
		{0, 0, 0},
		{1000, -1000, 42},
		{0.1, 0.2, 0.3},
	}
	for _, in := range inputs {
		got, err := m.Score(in)
		if err != nil {
			t.Fatal(err)
		}
		if got <= 0 || got >= 1 {
			t.Errorf("Score(%v) = %v, want in (0,1)", in, got)
		}
	}
}

func TestHeavyRanker_DimensionMismatch(t *testing.T) {
	m := NewHeavyRanker(4, nil, ActivationReLU, 1)
	if _, err := m.Score([]float64{1}); err == nil {
		t.Fatal("expected error on dimension mismatch")
	}
}

func TestActivation(t *testing.T) {
	tests := []struct {
		act  Activation
		in   float64
		want float64
	}{
		{ActivationReLU, -1, 0},
		{ActivationReLU, 2, 2},
		{ActivationLinear, -3, -3},
		{ActivationTanh, 0, 0},
		{ActivationSigmoid, 0, 0.5},
	}
	for _, tt := range tests {
		if got := tt.act.apply(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s(%v) = %v, want %v", tt.act, tt.in, got, tt.want)
		}
	}
}

func TestLoadHeavyRanker_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"sizes": [2, 1]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadHeavyRanker(path, 4)
	if !core.IsModelLoadFailure(err) {
		t.Errorf("want model load failure, got %v", err)
	}
}
