package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/feature"
	"github.com/rushteam/feedkit/filter"
	"github.com/rushteam/feedkit/mix"
	"github.com/rushteam/feedkit/model"
	"github.com/rushteam/feedkit/notify"
	"github.com/rushteam/feedkit/rank"
	"github.com/rushteam/feedkit/source"
	"github.com/rushteam/feedkit/store"
)

// Engine 是推荐编排器，对外暴露两个操作：
// GenerateTimeline 与 GenerateNotifications。
//
// 并发约定：构造完成后所有字段只读，一个 Engine 实例可被任意多个
// goroutine 同时调用，不同用户的请求之间没有共享可变状态
// （唯一例外是注入的频控存储，它自身保证原子性）。
//
// 失败语义：构造期校验配置与模型（fail fast）；运行期任一阶段失败
// 则整次调用失败，调用方不会拿到半成品 Timeline。
type Engine struct {
	data core.DataSource
	cfg  Config

	extractor *feature.Extractor
	scorer    model.Scorer

	fanout     *source.Fanout
	filterNode *filter.Node
	rankNode   *rank.Node
	mixNode    *mix.Node
	notifyNode *notify.Node

	features core.UserFeatureService
	cache    *feature.CachedUserFeatureService

	// ownedLimiter 是未注入频控存储时引擎自建的默认实现，
	// 由 Close 负责释放；注入的存储生命周期归调用方
	ownedLimiter *store.MemoryStore

	recorder Recorder
	logger   zerolog.Logger
}

// Option 定制 Engine 装配。
type Option func(*options)

type options struct {
	logger         zerolog.Logger
	scorer         model.Scorer
	features       core.UserFeatureService
	cacheSize      int
	cacheTTL       time.Duration
	limiter        core.RateLimitStore
	recorder       Recorder
	authorResolver func(authorID string) *core.User
}

// WithLogger 注入日志器（默认丢弃日志）。
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithScorer 注入打分模型，替代按配置构建的内置模型。
func WithScorer(s model.Scorer) Option {
	return func(o *options) { o.scorer = s }
}

// WithUserFeatureService 注入用户特征服务（在线特征仓库等）。
func WithUserFeatureService(svc core.UserFeatureService) Option {
	return func(o *options) { o.features = svc }
}

// WithFeatureCache 在用户特征服务外包一层本地缓存；
// 命中率会写入 PipelineMetrics.CacheHitRate。
func WithFeatureCache(maxSize int, ttl time.Duration) Option {
	return func(o *options) {
		o.cacheSize = maxSize
		o.cacheTTL = ttl
	}
}

// WithRateLimitStore 注入通知频控存储（默认进程内存储，
// 多实例部署时应换成 Redis）。
func WithRateLimitStore(limiter core.RateLimitStore) Option {
	return func(o *options) { o.limiter = limiter }
}

// WithRecorder 注入指标上报器。
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithAuthorResolver 注入作者资料解析（author_* 特征的数据来源）。
func WithAuthorResolver(fn func(authorID string) *core.User) Option {
	return func(o *options) { o.authorResolver = fn }
}

// New 装配整条链路。配置校验与模型加载失败都在这里报错。
func New(data core.DataSource, cfg Config, opts ...Option) (*Engine, error) {
	o := &options{
		logger:   zerolog.Nop(),
		recorder: NopRecorder{},
	}
	for _, opt := range opts {
		opt(o)
	}

	scorer := o.scorer
	if scorer == nil {
		var err error
		scorer, err = buildScorer(cfg)
		if err != nil {
			return nil, err
		}
	}

	extractor := feature.NewExtractor()
	extractor.AuthorResolver = o.authorResolver

	fanout, err := source.NewFanout(data, cfg.Source, o.logger)
	if err != nil {
		return nil, err
	}
	filterNode, err := filter.NewNode(cfg.Filter, o.logger)
	if err != nil {
		return nil, err
	}
	if err := cfg.Rank.Validate(o.logger); err != nil {
		return nil, err
	}
	rankNode := rank.NewNode(extractor, scorer, cfg.Rank)
	if err := cfg.Mix.Validate(); err != nil {
		return nil, err
	}
	mixNode := &mix.Node{Config: cfg.Mix}

	limiter := o.limiter
	var ownedLimiter *store.MemoryStore
	if limiter == nil {
		ownedLimiter = store.NewMemoryStore()
		limiter = ownedLimiter
	}
	notifyNode, err := notify.NewNode(
		[]notify.Generator{
			&notify.Reactive{Data: data},
			&notify.Trending{Data: data},
			&notify.Personalized{Data: data, Extractor: extractor, Model: scorer},
		},
		limiter, cfg.Notify, o.logger,
	)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		data:         data,
		cfg:          cfg,
		extractor:    extractor,
		scorer:       scorer,
		fanout:       fanout,
		filterNode:   filterNode,
		rankNode:     rankNode,
		mixNode:      mixNode,
		notifyNode:   notifyNode,
		features:     o.features,
		ownedLimiter: ownedLimiter,
		recorder:     o.recorder,
		logger:       o.logger,
	}
	if o.features != nil && o.cacheSize > 0 {
		e.cache = feature.NewCachedUserFeatureService(o.features, o.cacheSize, o.cacheTTL)
		e.features = e.cache
	}
	return e, nil
}

// buildScorer 按配置构建打分模型：
// EnableMLRanking 走 HeavyRanker 精排，否则 LightRanker 粗排；
// ModelPath 非空时热启动加载外部权重，加载失败即构造失败。
func buildScorer(cfg Config) (model.Scorer, error) {
	dim := len(feature.Keys)
	if cfg.Rank.EnableMLRanking {
		if cfg.ModelPath != "" {
			return model.LoadHeavyRanker(cfg.ModelPath, dim)
		}
		return model.NewHeavyRanker(dim, cfg.HiddenLayers, cfg.Activation, cfg.ModelSeed), nil
	}
	if cfg.ModelPath != "" {
		return model.LoadLightRanker(cfg.ModelPath, dim)
	}
	return model.NewLightRanker(dim), nil
}

// GenerateTimeline 为目标用户生成一条时间线。
// 空时间线是合法结果，不是错误。
func (e *Engine) GenerateTimeline(ctx context.Context, userID string) (*core.Timeline, error) {
	start := time.Now()
	fctx := &core.FeedContext{
		UserID: userID,
		Scene:  "home_timeline",
		User:   e.loadUserContext(ctx, userID),
	}

	candidates, stats, err := e.fanout.Gather(ctx, fctx)
	if err != nil {
		return nil, err
	}
	sourced := len(candidates)

	candidates, err = e.filterNode.Process(ctx, fctx, candidates)
	if err != nil {
		return nil, err
	}
	filtered := len(candidates)

	candidates, err = e.rankNode.Process(ctx, fctx, candidates)
	if err != nil {
		return nil, err
	}
	ranked := len(candidates)

	candidates, err = e.mixNode.Process(ctx, fctx, candidates)
	if err != nil {
		return nil, err
	}

	timeline := core.NewTimeline(userID, candidates, Algorithm)

	metrics := core.PipelineMetrics{
		UserID:        userID,
		SourcedCount:  sourced,
		FilteredCount: filtered,
		RankedCount:   ranked,
		Duration:      time.Since(start),
		ErrorRate:     stats.ErrorRate(),
		Resources:     core.SnapshotResourceUsage(),
		StartedAt:     start,
	}
	if e.cache != nil {
		metrics.CacheHitRate = e.cache.HitRate()
	}
	e.recorder.Observe(metrics)

	e.logger.Info().
		Str("user_id", userID).
		Int("sourced", sourced).
		Int("filtered", filtered).
		Int("timeline", timeline.Len()).
		Dur("duration", metrics.Duration).
		Float64("error_rate", metrics.ErrorRate).
		Strs("degraded", stats.Degraded).
		Msg("timeline generated")

	return timeline, nil
}

// GenerateNotifications 为目标用户生成通知列表。
// 空列表是合法结果，不是错误。
func (e *Engine) GenerateNotifications(ctx context.Context, userID string) ([]*core.Notification, error) {
	start := time.Now()
	fctx := &core.FeedContext{
		UserID: userID,
		Scene:  "notifications",
		User:   e.loadUserContext(ctx, userID),
	}

	notifications, err := e.notifyNode.Generate(ctx, fctx)
	if err != nil {
		return nil, err
	}

	metrics := core.NotificationMetrics{
		UserID:         userID,
		GeneratedCount: len(notifications),
		Duration:       time.Since(start),
		StartedAt:      start,
	}
	e.recorder.ObserveNotifications(metrics)

	e.logger.Info().
		Str("user_id", userID).
		Int("notifications", len(notifications)).
		Dur("duration", metrics.Duration).
		Msg("notifications generated")

	return notifications, nil
}

// loadUserContext 加载用户打分上下文并叠加在线用户特征。
// 两步都按降级处理：上下文缺失时个性化特征置零，链路继续。
func (e *Engine) loadUserContext(ctx context.Context, userID string) *core.UserContext {
	uctx, err := e.data.FetchUserContext(ctx, userID)
	if err != nil {
		e.logger.Warn().
			Str("user_id", userID).
			Err(err).
			Msg("user context unavailable, scoring without user features")
		return nil
	}

	if e.features != nil {
		feats, err := e.features.GetUserFeatures(ctx, userID)
		if err != nil {
			e.logger.Warn().
				Str("user_id", userID).
				Err(err).
				Msg("user feature service failed, using data source values")
			return uctx
		}
		feature.ApplyUserFeatures(uctx, feats)
	}
	return uctx
}

// Close 释放编排器持有的资源：特征服务连接、并行打分池、
// 以及引擎自建的默认频控存储（注入的存储不在此关闭）。
func (e *Engine) Close(ctx context.Context) error {
	e.rankNode.Stop()

	var err error
	if e.features != nil {
		err = e.features.Close(ctx)
	}
	if e.ownedLimiter != nil {
		if cerr := e.ownedLimiter.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
