package domain

import "fmt"

// ErrorCategory はレンダリング失敗の分類です。
type ErrorCategory string

const (
	CategoryRateLimited    ErrorCategory = "RATE_LIMITED"
	CategoryAuthInvalid    ErrorCategory = "AUTH_INVALID"
	CategoryContentBlocked ErrorCategory = "CONTENT_BLOCKED"
	CategoryEmptyResponse  ErrorCategory = "EMPTY_RESPONSE"
	CategoryUnknown        ErrorCategory = "UNKNOWN"
)

// Categories は全カテゴリを固定順で返します。
func Categories() []ErrorCategory {
	return []ErrorCategory{
		CategoryRateLimited,
		CategoryAuthInvalid,
		CategoryContentBlocked,
		CategoryEmptyResponse,
		CategoryUnknown,
	}
}

// Outcome は1回のレンダリングの最終結果です。
// 実体は *Success か *Failure のどちらか一方だけです。
type Outcome interface {
	outcome()
}

// Success は生成に成功した画像です。
type Success struct {
	Data     []byte
	MimeType string
	UsedSeed int64 // 戻り値は情報欠落を防ぐため int64
}

// Failure は分類済みの失敗です。error としても扱えます。
type Failure struct {
	Category ErrorCategory
	Message  string
	Err      error
}

func (*Success) outcome() {}
func (*Failure) outcome() {}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Category, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure は Failure を生成します。
func NewFailure(category ErrorCategory, message string, err error) *Failure {
	return &Failure{Category: category, Message: message, Err: err}
}
