// Package engine 是推荐链路的编排层：装配并顺序执行
// 召回 → 过滤 → 排序 → 混排，以及平行的通知链路。
//
// 编排层只做装配、排序与观测，不包含任何打分/过滤逻辑本身。
package engine

import (
	"github.com/rushteam/feedkit/filter"
	"github.com/rushteam/feedkit/mix"
	"github.com/rushteam/feedkit/model"
	"github.com/rushteam/feedkit/notify"
	"github.com/rushteam/feedkit/rank"
	"github.com/rushteam/feedkit/source"
)

// Algorithm 标识当前装配的链路版本，写入每条 Timeline。
const Algorithm = "feedkit/blended@v1"

// Config 聚合各阶段配置。所有配置在 New 时一次性校验，
// 校验失败/模型加载失败在构造期报错，而不是第一次请求时。
type Config struct {
	Source source.Config `yaml:"source" json:"source"`
	Filter filter.Config `yaml:"filter" json:"filter"`
	Rank   rank.Config   `yaml:"rank" json:"rank"`
	Mix    mix.Config    `yaml:"mix" json:"mix"`
	Notify notify.Config `yaml:"notify" json:"notify"`

	// ModelPath 预训练权重文件路径；为空时冷启动
	// （LightRanker 全零权重，HeavyRanker 种子化随机初始化）
	ModelPath string `yaml:"model_path" json:"model_path"`

	// ModelSeed HeavyRanker 冷启动的初始化种子（可复现）
	ModelSeed int64 `yaml:"model_seed" json:"model_seed"`

	// HiddenLayers HeavyRanker 隐层结构
	HiddenLayers []int `yaml:"hidden_layers" json:"hidden_layers"`

	// Activation HeavyRanker 隐层激活函数
	Activation model.Activation `yaml:"activation" json:"activation"`
}

// DefaultConfig 返回整条链路的默认配置。
func DefaultConfig() Config {
	return Config{
		Source:       source.DefaultConfig(),
		Filter:       filter.DefaultConfig(),
		Rank:         rank.DefaultConfig(),
		Mix:          mix.DefaultConfig(),
		Notify:       notify.DefaultConfig(),
		ModelSeed:    42,
		HiddenLayers: []int{32, 16},
		Activation:   model.ActivationReLU,
	}
}
