package core

import "time"

// User 是用户的公开资料快照。由外部数据源加载，进入链路后只读。
type User struct {
	ID          string
	Username    string
	DisplayName string

	FollowerCount  int
	FollowingCount int
	PostCount      int
	Verified       bool

	CreatedAt time.Time
}

// UserContext 是请求用户的打分上下文：公开资料 + 行为统计信号。
//
// EngagementRate / ActivityScore 由特征服务提供（Feast / 缓存 / 数据源），
// 缺失时为 0，特征抽取保证输出维度不变。
type UserContext struct {
	User *User

	// EngagementRate 用户互动率（历史互动数 / 曝光数），取值 [0,1]
	EngagementRate float64

	// ActivityScore 用户活跃度评分，取值 [0,1]
	ActivityScore float64
}

// UserID 返回上下文对应的用户 ID（User 缺失时返回空串）。
func (uc *UserContext) UserID() string {
	if uc == nil || uc.User == nil {
		return ""
	}
	return uc.User.ID
}
