package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store、core.KeyValueStore 和 core.RateLimitStore 接口。
//
// 示例：
//   var st core.KeyValueStore = NewMemoryStore()
//   var rl core.RateLimitStore = NewMemoryStore()
