package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message），可携带底层错误（Err）
//   - 支持错误检查函数（IsXXX），并兼容 errors.Is / errors.As
//
// 使用场景：
//   - Source 错误：SOURCE_UNAVAILABLE（某个召回源不可用/超时）
//   - Config 错误：INVALID_CONFIG（权重越界、负数上限等）
//   - Model 错误：MODEL_LOAD_FAILURE（模型权重文件损坏/维度不匹配）
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "SOURCE_UNAVAILABLE", "INVALID_CONFIG"）
	Message string // 错误消息
	Module  string // 模块名称（如 "source", "model", "store"）
	Err     error  // 底层错误（可选）

	// Transient 标记错误是否为瞬时错误（可重试/可降级）。
	// 数据源超时是瞬时的；配置错误是永久的。
	Transient bool
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 返回底层错误，支持 errors.Is / errors.As 链式检查。
func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建携带底层错误的领域错误
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 推荐链路错误代码
	ErrorCodeSourceUnavailable = "SOURCE_UNAVAILABLE" // 召回源不可用/超时
	ErrorCodeInvalidConfig     = "INVALID_CONFIG"     // 配置无效
	ErrorCodeModelLoadFailure  = "MODEL_LOAD_FAILURE" // 模型权重加载失败
)

// 模块名称常量
const (
	ModuleSource = "source" // 候选召回模块
	ModuleFilter = "filter" // 过滤模块
	ModuleRank   = "rank"   // 排序模块
	ModuleMix    = "mix"    // 混排/截断模块
	ModuleNotify = "notify" // 通知模块
	ModuleModel  = "model"  // 打分模型模块
	ModuleStore  = "store"  // 存储模块
	ModuleEngine = "engine" // 编排模块
)

// IsSourceUnavailable 检查错误是否为召回源不可用
func IsSourceUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeSourceUnavailable
	}
	return false
}

// IsInvalidConfig 检查错误是否为配置无效
func IsInvalidConfig(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidConfig
	}
	return false
}

// IsModelLoadFailure 检查错误是否为模型加载失败
func IsModelLoadFailure(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeModelLoadFailure
	}
	return false
}

// IsTransient 检查错误是否为瞬时错误（可重试/可降级）。
// 非 DomainError 一律视为永久错误。
func IsTransient(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Transient
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
