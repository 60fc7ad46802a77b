package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RelayConfig はメールリレークライアントの設定。
type RelayConfig struct {
	BaseURL string
	From    string

	// テスト用にオーバーライド可能なHTTPクライアント
	HTTPClient *http.Client
}

// RelayClient はHTTPメールリレー経由で送信するSender実装。
type RelayClient struct {
	config RelayConfig
}

// NewRelayClient はRelayClientを生成する。
func NewRelayClient(config RelayConfig) *RelayClient {
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	return &RelayClient{config: config}
}

// relayRequest はリレーの送信エンドポイントのリクエストボディ。
type relayRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send はメールを1通送信する。
func (c *RelayClient) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(relayRequest{
		From:    c.config.From,
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail relay rejected with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// compile-time interface check
var _ Sender = (*RelayClient)(nil)
