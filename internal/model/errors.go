// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// HTTPレスポンスでは {"error": Message} の形でクライアントに返される。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（クライアントに返す）
	Category string // カテゴリ: validation, auth, permission, not_found, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeAdminTokenRequired = "ADMIN_TOKEN_REQUIRED"
	ErrCodeNotLoggedIn        = "NOT_LOGGED_IN"
	ErrCodeUserNotApproved    = "USER_NOT_APPROVED"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeConceptNotFound    = "CONCEPT_NOT_FOUND"
)

// NewValidationError は入力不備エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
	}
}

// NewAdminTokenRequiredError は管理者トークン不備エラーを生成する。
func NewAdminTokenRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeAdminTokenRequired,
		Message:  "admin token required",
		Category: "auth",
	}
}

// NewNotLoggedInError は未ログインエラーを生成する。
func NewNotLoggedInError() *APIError {
	return &APIError{
		Code:     ErrCodeNotLoggedIn,
		Message:  "not logged in",
		Category: "auth",
	}
}

// NewUserNotApprovedError は未承認ユーザーのログイン試行エラーを生成する。
func NewUserNotApprovedError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotApproved,
		Message:  "user not approved",
		Category: "permission",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "user not found",
		Category: "not_found",
	}
}

// NewConceptNotFoundError はコンセプト未検出エラーを生成する。
func NewConceptNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeConceptNotFound,
		Message:  "concept not found",
		Category: "not_found",
	}
}
