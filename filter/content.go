package filter

import (
	"context"
	"strings"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/dsl"
)

// ContentFilter 是内容策略过滤器：
//   - 空内容 / 过短内容
//   - 禁用词命中（子串匹配，大小写不敏感）
//   - CEL 策略规则命中（可选，规则在构造时编译）
type ContentFilter struct {
	MinLength   int
	DeniedTerms []string

	rules []*dsl.PolicyRule
}

// NewContentFilter 创建内容过滤器。policyRules 中任何一条编译失败即返回错误，
// 策略规则错误应在构造期暴露而不是在请求路径上。
func NewContentFilter(minLength int, deniedTerms []string, policyRules []string) (*ContentFilter, error) {
	f := &ContentFilter{
		MinLength:   minLength,
		DeniedTerms: deniedTerms,
	}
	for _, expr := range policyRules {
		rule, err := dsl.CompilePolicyRule(expr)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleFilter, core.ErrorCodeInvalidConfig,
				"content filter: bad policy rule "+expr, err)
		}
		f.rules = append(f.rules, rule)
	}
	return f, nil
}

func (f *ContentFilter) Name() string { return "filter.content" }

func (f *ContentFilter) ShouldFilter(
	_ context.Context,
	fctx *core.FeedContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || c.Post == nil {
		return true, nil
	}
	post := c.Post

	content := strings.TrimSpace(post.Content)
	if content == "" {
		return true, nil
	}
	minLen := f.MinLength
	if minLen <= 0 {
		minLen = 1
	}
	if len([]rune(content)) < minLen {
		return true, nil
	}

	if len(f.DeniedTerms) > 0 {
		lowered := strings.ToLower(content)
		for _, term := range f.DeniedTerms {
			if term == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(term)) {
				return true, nil
			}
		}
	}

	for _, rule := range f.rules {
		hit, err := rule.Match(post, fctx)
		if err != nil {
			// 规则求值错误不拦截内容，由 FilterNode 记录后继续
			return false, err
		}
		if hit {
			return true, nil
		}
	}

	return false, nil
}
