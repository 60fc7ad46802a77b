// Package identity は外部IDディレクトリ（ユーザープール）への問い合わせを提供する。
// メンテナーと訪問者は別プールで管理され、clientIDで呼び分ける。
package identity

import "context"

// SignUpOutcome はサインアップ結果の分類。
type SignUpOutcome int

const (
	// SignUpOK はアカウント作成に成功した。
	SignUpOK SignUpOutcome = iota
	// SignUpAlreadyExists は同じメールアドレスのアカウントが既に存在する。
	SignUpAlreadyExists
	// SignUpRejected はディレクトリがその他の理由で作成を拒否した。
	SignUpRejected
)

// AuthResult は認証成功時にディレクトリが発行するトークン一式。
type AuthResult struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int
}

// SignUpAttributes はアカウント作成時にディレクトリへ引き渡すユーザー属性。
// ディレクトリ側ではemail・custom:firstname・custom:lastnameとして保存される。
type SignUpAttributes struct {
	Email     string
	FirstName string
	LastName  string
}

// Directory はIDディレクトリの操作インターフェース。
type Directory interface {
	// SignUp は指定プールにアカウントを属性付きで作成する。
	// 作成できなかった理由はSignUpOutcomeで分類して返す。
	// SignUpRejectedの場合、理由文字列を第2戻り値に含む。
	SignUp(ctx context.Context, clientID, username, password string, attrs SignUpAttributes) (SignUpOutcome, string, error)

	// InitiateAuth はユーザー名とパスワードで認証を行う。
	// 認証が拒否された場合はErrNotAuthorizedを返す。
	InitiateAuth(ctx context.Context, clientID, username, password string) (*AuthResult, error)
}
