package filter

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// AuthorFilter 过滤请求用户自己发布的帖子：
// 用户的时间线里永远不出现自己的内容。
// 只按作者身份过滤，不会误伤其他作者的帖子。
type AuthorFilter struct{}

func (f *AuthorFilter) Name() string { return "filter.author" }

func (f *AuthorFilter) ShouldFilter(
	_ context.Context,
	fctx *core.FeedContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || c.Post == nil {
		return true, nil
	}
	if fctx == nil || fctx.UserID == "" {
		return false, nil
	}
	return c.Post.AuthorID == fctx.UserID, nil
}
