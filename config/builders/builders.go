// Package builders 注册内置 Node 的配置构建器。
// 以空导入方式引入即可触发注册：
//
//	import _ "github.com/rushteam/feedkit/config/builders"
package builders

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/feedkit/config"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/feature"
	"github.com/rushteam/feedkit/filter"
	"github.com/rushteam/feedkit/mix"
	"github.com/rushteam/feedkit/model"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/conv"
	"github.com/rushteam/feedkit/rank"
	"github.com/rushteam/feedkit/source"
)

func init() {
	config.Register("source.fanout", BuildFanoutNode)
	config.Register("filter.node", BuildFilterNode)
	config.Register("rank.blended", BuildRankNode)
	config.Register("mix.timeline", BuildMixNode)
}

var (
	depsMu     sync.RWMutex
	dataSource core.DataSource
	logger     = zerolog.Nop()
)

// SetDataSource 注入召回节点依赖的数据源。
// 数据源是运行时对象，无法从 YAML 构建，必须在 BuildPipeline 之前设置。
func SetDataSource(ds core.DataSource) {
	depsMu.Lock()
	defer depsMu.Unlock()
	dataSource = ds
}

// SetLogger 注入构建出的节点使用的日志器。
func SetLogger(l zerolog.Logger) {
	depsMu.Lock()
	defer depsMu.Unlock()
	logger = l
}

func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	depsMu.RLock()
	ds, log := dataSource, logger
	depsMu.RUnlock()
	if ds == nil {
		return nil, fmt.Errorf("source.fanout: data source not set, call builders.SetDataSource first")
	}

	sc := source.DefaultConfig()
	if n := conv.ConfigGetInt64(cfg, "max_candidates", 0); n > 0 {
		sc.MaxCandidates = int(n)
	}
	sc.InNetworkWeight = conv.ConfigGetFloat64(cfg, "in_network_weight", sc.InNetworkWeight)
	sc.OutOfNetworkWeight = conv.ConfigGetFloat64(cfg, "out_of_network_weight", sc.OutOfNetworkWeight)
	sc.TrendingWeight = conv.ConfigGetFloat64(cfg, "trending_weight", sc.TrendingWeight)
	if p := conv.ConfigGet(cfg, "failure_policy", ""); p != "" {
		sc.FailurePolicy = source.FailurePolicy(p)
	}
	if sec := conv.ConfigGetInt64(cfg, "origin_timeout", 0); sec > 0 {
		sc.OriginTimeout = time.Duration(sec) * time.Second
	}

	return source.NewFanout(ds, sc, log)
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	fc := filter.Config{
		EnableContentFiltering:    conv.ConfigGet(cfg, "enable_content_filtering", true),
		EnableUserFiltering:       conv.ConfigGet(cfg, "enable_user_filtering", true),
		EnableEngagementFiltering: conv.ConfigGet(cfg, "enable_engagement_filtering", true),
		EnableDiversityFiltering:  conv.ConfigGet(cfg, "enable_diversity_filtering", true),
		MinContentLength:          int(conv.ConfigGetInt64(cfg, "min_content_length", 1)),
		MinEngagementThreshold:    int(conv.ConfigGetInt64(cfg, "min_engagement_threshold", 0)),
	}
	if terms := conv.SliceAnyToString(cfg["denied_terms"]); terms != nil {
		fc.DeniedTerms = terms
	}
	if rules := conv.SliceAnyToString(cfg["policy_rules"]); rules != nil {
		fc.PolicyRules = rules
	}
	depsMu.RLock()
	log := logger
	depsMu.RUnlock()
	return filter.NewNode(fc, log)
}

func BuildRankNode(cfg map[string]interface{}) (pipeline.Node, error) {
	depsMu.RLock()
	log := logger
	depsMu.RUnlock()

	rc := rank.DefaultConfig()
	rc.EngagementWeight = conv.ConfigGetFloat64(cfg, "engagement_weight", rc.EngagementWeight)
	rc.RecencyWeight = conv.ConfigGetFloat64(cfg, "recency_weight", rc.RecencyWeight)
	rc.RelevanceWeight = conv.ConfigGetFloat64(cfg, "relevance_weight", rc.RelevanceWeight)
	rc.DiversityWeight = conv.ConfigGetFloat64(cfg, "diversity_weight", rc.DiversityWeight)
	rc.EnableMLRanking = conv.ConfigGet(cfg, "enable_ml_ranking", false)
	rc.Parallelism = int(conv.ConfigGetInt64(cfg, "parallelism", 0))
	if err := rc.Validate(log); err != nil {
		return nil, err
	}

	dim := len(feature.Keys)
	modelPath := conv.ConfigGet(cfg, "model_path", "")
	var (
		scorer model.Scorer
		err    error
	)
	switch {
	case rc.EnableMLRanking && modelPath != "":
		scorer, err = model.LoadHeavyRanker(modelPath, dim)
	case rc.EnableMLRanking:
		seed := conv.ConfigGetInt64(cfg, "model_seed", 42)
		scorer = model.NewHeavyRanker(dim, nil, model.ActivationReLU, seed)
	case modelPath != "":
		scorer, err = model.LoadLightRanker(modelPath, dim)
	default:
		scorer = model.NewLightRanker(dim)
	}
	if err != nil {
		return nil, err
	}

	return rank.NewNode(feature.NewExtractor(), scorer, rc), nil
}

func BuildMixNode(cfg map[string]interface{}) (pipeline.Node, error) {
	mc := mix.DefaultConfig()
	if n := conv.ConfigGetInt64(cfg, "timeline_limit", 0); n > 0 {
		mc.TimelineLimit = int(n)
	}
	mc.EnableDiversity = conv.ConfigGet(cfg, "enable_diversity", mc.EnableDiversity)
	mc.EnableRecency = conv.ConfigGet(cfg, "enable_recency", mc.EnableRecency)
	mc.EnableEngagement = conv.ConfigGet(cfg, "enable_engagement", mc.EnableEngagement)
	if n := conv.ConfigGetInt64(cfg, "max_consecutive_author", 0); n > 0 {
		mc.MaxConsecutiveAuthor = int(n)
	}
	if err := mc.Validate(); err != nil {
		return nil, err
	}
	return &mix.Node{Config: mc}, nil
}
