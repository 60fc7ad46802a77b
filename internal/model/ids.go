package model

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// ID長の定義。task_idのみ短い6桁を使用する（歴史的経緯による）。
const (
	taskIDLength    = 6
	visitorIDLength = 10
	visitIDLength   = 10
	userIDBytes     = 6
)

// newHexID は128ビットの乱数を16進文字列化し、先頭length文字を返す。
// 乱数源にはcrypto/randを使用する。
func newHexID(length int) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b)[:length], nil
}

// NewTaskID は6桁16進のタスクIDを生成する。
func NewTaskID() (string, error) {
	return newHexID(taskIDLength)
}

// NewVisitorID は10桁16進の訪問者IDを生成する。
func NewVisitorID() (string, error) {
	return newHexID(visitorIDLength)
}

// NewVisitID は10桁16進の訪問IDを生成する。
func NewVisitID() (string, error) {
	return newHexID(visitIDLength)
}

// NewUserID は6バイトの乱数をURLセーフなbase64で符号化したユーザーIDを生成する。
func NewUserID() (string, error) {
	b := make([]byte, userIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
