package model

// VerificationToken はメンテナー登録用のメール検証トークンを表す。
// generatedTokenが主キー。発行から24時間で失効し、登録成功時に削除される（単回使用）。
// Emailは発行先アドレスで、利用時に申請者のアドレスと照合される。
type VerificationToken struct {
	Token     string
	TokenTime int64
	Email     string
}
