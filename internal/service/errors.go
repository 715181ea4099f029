package service

import "errors"

var (
	// ErrInvalidInput 是所有输入校验失败的根错误。
	ErrInvalidInput = errors.New("invalid input")
	// ErrContactNotFound 在指定留言不存在时返回
	ErrContactNotFound = errors.New("contact not found")
	// ErrContentNotFound 在指定文案不存在时返回
	ErrContentNotFound = errors.New("content not found")
	// ErrInvalidCredentials 表示用户名或密码错误，两种情况不做区分。
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError 携带可直接返回给前端的提示信息。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap 使 errors.Is(err, ErrInvalidInput) 成立。
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
