package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/feedkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("post", cel.DynType),
		cel.Variable("fctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// PolicyRule 是内容策略规则，使用 CEL (Common Expression Language) 表达。
// 表达式返回 true 表示帖子命中策略（应当被过滤）。
//
// 表达式语法（CEL 标准语法）：
//   - 文本：post.content.contains("spam")
//   - 数值：post.total_engagement < 5 / size(post.hashtags) > 10
//   - 逻辑：post.is_repost && post.like_count == 0
//   - 上下文：post.author_id == fctx.user_id
//
// 示例：
//   - `size(post.hashtags) > 10` → 标签堆砌帖
//   - `post.language != "" && post.language != "en"` → 语言限定
//   - `post.sentiment == "toxic"` → 情感标注拦截
type PolicyRule struct {
	expr string
	prg  cel.Program
}

// CompilePolicyRule 编译一条策略规则。表达式编译一次，可并发复用。
func CompilePolicyRule(expr string) (*PolicyRule, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	return &PolicyRule{expr: expr, prg: prg}, nil
}

// Expr 返回规则原始表达式。
func (r *PolicyRule) Expr() string { return r.expr }

// Match 对一条帖子求值，返回是否命中规则。
func (r *PolicyRule) Match(post *core.Post, fctx *core.FeedContext) (bool, error) {
	if r == nil || r.prg == nil {
		return false, nil
	}

	out, _, err := r.prg.Eval(buildInput(post, fctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(post *core.Post, fctx *core.FeedContext) map[string]interface{} {
	p := map[string]interface{}{
		"id":               post.ID,
		"author_id":        post.AuthorID,
		"content":          post.Content,
		"like_count":       post.LikeCount,
		"repost_count":     post.RepostCount,
		"reply_count":      post.ReplyCount,
		"quote_count":      post.QuoteCount,
		"total_engagement": post.TotalEngagement(),
		"is_repost":        post.IsRepost,
		"media_urls":       post.MediaURLs,
		"hashtags":         post.Hashtags,
		"mentions":         post.Mentions,
		"language":         post.Language,
		"sentiment":        post.Sentiment,
	}

	f := map[string]interface{}{}
	if fctx != nil {
		f["user_id"] = fctx.UserID
		f["scene"] = fctx.Scene
		f["params"] = fctx.Params
	}

	return map[string]interface{}{
		"post": p,
		"fctx": f,
	}
}
