package core

import (
	"runtime"
	"time"
)

// ResourceUsage 是一次链路运行的进程资源快照。
// 取自 runtime 真实数据，而不是占位随机数。
type ResourceUsage struct {
	HeapAllocBytes uint64 // 当前堆上分配字节数
	NumGoroutine   int    // 当前 goroutine 数
	NumGC          uint32 // 累计 GC 次数
}

// SnapshotResourceUsage 采集当前进程的资源快照。
func SnapshotResourceUsage() ResourceUsage {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ResourceUsage{
		HeapAllocBytes: ms.HeapAlloc,
		NumGoroutine:   runtime.NumGoroutine(),
		NumGC:          ms.NumGC,
	}
}

// PipelineMetrics 记录一次链路运行在各阶段边界的计数与耗时。
// 每次运行产出一份，写入后只读。
type PipelineMetrics struct {
	UserID string

	// 各阶段边界计数
	SourcedCount  int // 召回阶段产出候选数
	FilteredCount int // 过滤阶段存活候选数
	RankedCount   int // 排序阶段产出候选数

	Duration time.Duration

	// CacheHitRate 特征缓存命中率，取值 [0,1]；无缓存时为 0
	CacheHitRate float64

	// ErrorRate 召回源失败率（失败源数 / 总源数），取值 [0,1]
	ErrorRate float64

	Resources ResourceUsage

	StartedAt time.Time
}

// NotificationMetrics 记录一次通知链路运行的计数与耗时。
// 通知链路没有阶段边界，只记录产出与整体耗时。
type NotificationMetrics struct {
	UserID string

	// GeneratedCount 最终产出的通知数（限流与截断之后）
	GeneratedCount int

	Duration time.Duration

	StartedAt time.Time
}
