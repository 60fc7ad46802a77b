// Package mail はメール送信ゲートウェイを提供する。
// 実送信はHTTPメールリレーに委譲する。
package mail

import "context"

// Message は送信する1通のメール。
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender はメール送信のインターフェース。
type Sender interface {
	// Send はメールを1通送信する。
	Send(ctx context.Context, msg Message) error
}
