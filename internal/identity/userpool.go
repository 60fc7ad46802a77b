package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotAuthorized はディレクトリが認証を拒否したことを表す。
var ErrNotAuthorized = errors.New("identity: not authorized")

// エラーコード。ディレクトリのエラーレスポンスの error フィールドに対応する。
const (
	errCodeUsernameExists = "UsernameExists"
	errCodeNotAuthorized  = "NotAuthorized"
)

// UserPoolConfig はユーザープールクライアントの設定。
type UserPoolConfig struct {
	BaseURL string

	// テスト用にオーバーライド可能なHTTPクライアント
	HTTPClient *http.Client
}

// UserPoolClient はHTTP経由でユーザープールを操作するDirectory実装。
type UserPoolClient struct {
	config UserPoolConfig
}

// NewUserPoolClient はUserPoolClientを生成する。
func NewUserPoolClient(config UserPoolConfig) *UserPoolClient {
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	return &UserPoolClient{config: config}
}

// poolRequest はsignup/initiate-auth共通のリクエストボディ。
// Attributesはsignupのみで使用する。
type poolRequest struct {
	ClientID   string          `json:"client_id"`
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	Attributes *poolAttributes `json:"attributes,omitempty"`
}

// poolAttributes はsignup時にディレクトリへ送るユーザー属性。
// キー名はディレクトリ側の属性スキーマに合わせる。
type poolAttributes struct {
	Email     string `json:"email"`
	FirstName string `json:"custom:firstname"`
	LastName  string `json:"custom:lastname"`
}

// poolErrorResponse はディレクトリのエラーレスポンス。
type poolErrorResponse struct {
	ErrorCode string `json:"error"`
	Message   string `json:"message"`
}

// authResponse はinitiate-auth成功時のレスポンス。
type authResponse struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// SignUp は指定プールにアカウントを属性付きで作成する。
func (c *UserPoolClient) SignUp(ctx context.Context, clientID, username, password string, attrs SignUpAttributes) (SignUpOutcome, string, error) {
	status, body, err := c.post(ctx, "/signup", poolRequest{
		ClientID: clientID,
		Username: username,
		Password: password,
		Attributes: &poolAttributes{
			Email:     attrs.Email,
			FirstName: attrs.FirstName,
			LastName:  attrs.LastName,
		},
	})
	if err != nil {
		return SignUpRejected, "", err
	}

	if status == http.StatusOK || status == http.StatusCreated {
		return SignUpOK, "", nil
	}

	var errResp poolErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return SignUpRejected, "", fmt.Errorf("signup failed with status %d: %s", status, string(body))
	}

	if errResp.ErrorCode == errCodeUsernameExists {
		return SignUpAlreadyExists, errResp.Message, nil
	}

	// サーバーエラーは呼び出し側でリトライ判断できるようerrorとして返す
	if status >= http.StatusInternalServerError {
		return SignUpRejected, "", fmt.Errorf("signup failed with status %d: %s", status, errResp.Message)
	}

	return SignUpRejected, errResp.Message, nil
}

// InitiateAuth はユーザー名とパスワードで認証を行う。
func (c *UserPoolClient) InitiateAuth(ctx context.Context, clientID, username, password string) (*AuthResult, error) {
	status, body, err := c.post(ctx, "/initiate-auth", poolRequest{
		ClientID: clientID,
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, ErrNotAuthorized
	}

	if status != http.StatusOK {
		var errResp poolErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.ErrorCode == errCodeNotAuthorized {
			return nil, ErrNotAuthorized
		}
		return nil, fmt.Errorf("initiate auth failed with status %d: %s", status, string(body))
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse auth response: %w", err)
	}

	if resp.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in auth response")
	}

	return &AuthResult{
		AccessToken:  resp.AccessToken,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// post はリクエストボディをJSONでPOSTし、ステータスコードとボディを返す。
func (c *UserPoolClient) post(ctx context.Context, path string, reqBody poolRequest) (int, []byte, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// compile-time interface check
var _ Directory = (*UserPoolClient)(nil)
