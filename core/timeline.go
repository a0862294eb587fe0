package core

import (
	"time"

	"github.com/google/uuid"
)

// Timeline 是一次推荐运行的最终产物：按相关性降序、数量有界的候选序列。
// 构造完成后不可变；长度上限由混排配置的 TimelineLimit 保证。
type Timeline struct {
	ID         string
	UserID     string
	Candidates []*Candidate
	CreatedAt  time.Time

	// Algorithm 标识产出该 Timeline 的算法名与版本（如 "feedkit/blended@v1"）
	Algorithm string
}

// NewTimeline 构造一个 Timeline（候选序列由调用方保证有序且已裁剪分数）。
func NewTimeline(userID string, candidates []*Candidate, algorithm string) *Timeline {
	return &Timeline{
		ID:         uuid.NewString(),
		UserID:     userID,
		Candidates: candidates,
		CreatedAt:  time.Now(),
		Algorithm:  algorithm,
	}
}

// Len 返回 Timeline 中候选数量。
func (t *Timeline) Len() int { return len(t.Candidates) }
