package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, identity, token, maintenance, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeEmailInUse      = "EMAIL_IN_USE"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeIdentityError   = "IDENTITY_ERROR"
	ErrCodeAuthFailed      = "AUTH_FAILED"
	ErrCodeMachineNotFound = "MACHINE_NOT_FOUND"
	ErrCodeTaskNotFound    = "TASK_NOT_FOUND"
	ErrCodeVisitorNotFound = "VISITOR_NOT_FOUND"
	ErrCodeNoOpenVisit     = "NO_OPEN_VISIT"
)

// NewInvalidRequestError は入力不備エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("Invalid request: %s", reason),
		Category: "validation",
		Action:   "Check the request body and try again.",
	}
}

// NewEmailInUseError はメールアドレス重複エラーを生成する。
// メッセージ文字列はフロントエンドとの既存契約のため変更しないこと。
func NewEmailInUseError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailInUse,
		Message:  "This email is already being used.",
		Category: "identity",
		Action:   "Sign in with the existing account or use a different email.",
	}
}

// NewTokenInvalidError は検証トークン不正エラーを生成する。
// トークンが存在しない場合と発行先メールアドレスが一致しない場合の両方で使用する。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalid,
		Message:  "Could not validate token",
		Category: "token",
		Action:   "Request a new verification token.",
	}
}

// NewTokenExpiredError は検証トークン期限切れエラーを生成する。
func NewTokenExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenExpired,
		Message:  "Token is expired",
		Category: "token",
		Action:   "Request a new verification token.",
	}
}

// NewIdentityError はIDディレクトリ起因のエラーを生成する。
// 「メールアドレス重複」以外のサインアップ失敗で使用する。
func NewIdentityError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeIdentityError,
		Message:  fmt.Sprintf("Identity directory rejected the request: %s", reason),
		Category: "identity",
		Action:   "Contact the MakerSpace staff if the problem persists.",
	}
}

// NewAuthFailedError は認証失敗エラーを生成する。
func NewAuthFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthFailed,
		Message:  "Authentication failed.",
		Category: "identity",
		Action:   "Check the email and password.",
	}
}

// NewMachineNotFoundError はマシン未登録エラーを生成する。
func NewMachineNotFoundError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeMachineNotFound,
		Message:  fmt.Sprintf("Machine not found: %s", name),
		Category: "maintenance",
		Action:   "Check the machine name.",
	}
}

// NewTaskNotFoundError はタスク未登録エラーを生成する。
func NewTaskNotFoundError(taskID string) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("Task not found: %s", taskID),
		Category: "maintenance",
		Action:   "Check the task ID.",
	}
}

// NewVisitorNotFoundError は訪問者未登録エラーを生成する。
func NewVisitorNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeVisitorNotFound,
		Message:  "User does not exist!",
		Category: "validation",
		Action:   "Register the visitor at the front desk first.",
	}
}

// NewNoOpenVisitError は未退館の訪問が存在しないエラーを生成する。
func NewNoOpenVisitError() *APIError {
	return &APIError{
		Code:     ErrCodeNoOpenVisit,
		Message:  "User never signed in!",
		Category: "validation",
		Action:   "Sign in before signing out.",
	}
}
