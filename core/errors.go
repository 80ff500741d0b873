package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 输入错误：INVALID_INPUT（标识缺失等结构性问题）
//   - 会话错误：SESSION_CLOSED（对已终止会话的操作）
//   - 存储错误：NOT_FOUND, NOT_SUPPORTED
//
// 注意：空推荐结果不是错误，调用方收到空切片和 nil error。
type DomainError struct {
	Code    string // 错误代码（如 "INVALID_INPUT", "SESSION_CLOSED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "profile", "engine", "session", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
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
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 结构必填字段缺失
	ErrorCodeSessionClosed = "SESSION_CLOSED" // 会话已终止
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
)

// 模块名称常量
const (
	ModuleProfile = "profile" // 画像模块
	ModuleEngine  = "engine"  // 推荐引擎
	ModuleSession = "session" // 会话模块
	ModuleStore   = "store"   // 存储模块
)

// 预定义的输入校验错误
var (
	ErrInvalidRestaurant  = NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "restaurant: missing id")
	ErrInvalidInteraction = NewDomainError(ModuleProfile, ErrorCodeInvalidInput, "interaction: missing user id or restaurant id")
	ErrInvalidContext     = NewDomainError(ModuleEngine, ErrorCodeInvalidInput, "recommend context: missing user id")
)

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsSessionClosed 检查错误是否为 SESSION_CLOSED。
func IsSessionClosed(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeSessionClosed
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}
