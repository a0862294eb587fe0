// Package feedkit 是一个个性化信息流推荐工具包（Feed Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Source → Filter → Rank → Mix）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Node 可扩展: 自定义 Node 即可插拔扩展（自建召回源或外部打分模型均可）
// - 通知链路与时间线链路结构平行，共享打分哲学与频控存储抽象
package feedkit

import "github.com/rushteam/feedkit/pipeline"

// 轻量 facade：便于用户直接 import "feedkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindSource      = pipeline.KindSource
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindMix         = pipeline.KindMix
	KindPostProcess = pipeline.KindPostProcess
)
