// Package token はメンテナー登録用メール検証トークンのライフサイクルを管理する。
package token

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/makerspace/internal/metrics"
	"github.com/hitoshi/makerspace/internal/model"
	"github.com/hitoshi/makerspace/internal/repository"
)

// ValidationResult はトークン検証結果の分類。
type ValidationResult int

const (
	// ValidationOK はトークンが有効。
	ValidationOK ValidationResult = iota
	// ValidationUnknown はトークンが存在しない。
	ValidationUnknown
	// ValidationExpired はトークンが期限切れ。
	ValidationExpired
	// ValidationWrongRecipient は発行先メールアドレスと申請者が一致しない。
	ValidationWrongRecipient
)

// Service は検証トークンの発行・検証・消費を提供する。
type Service struct {
	tokens  repository.TokenRepository
	ttl     time.Duration
	metrics metrics.MetricsCollector
	now     func() time.Time
}

// NewService はServiceを生成する。collectorはnil可。
func NewService(tokens repository.TokenRepository, ttl time.Duration, collector metrics.MetricsCollector) *Service {
	return &Service{
		tokens:  tokens,
		ttl:     ttl,
		metrics: collector,
		now:     time.Now,
	}
}

// Mint は指定アドレス宛のトークンを発行して保存する。
func (s *Service) Mint(ctx context.Context, email string) (*model.VerificationToken, error) {
	vt := &model.VerificationToken{
		Token:     uuid.New().String(),
		TokenTime: s.now().Unix(),
		Email:     email,
	}

	if err := s.tokens.Create(ctx, vt); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}

	slog.Info("検証トークンを発行",
		slog.String("email", email),
	)

	return vt, nil
}

// Validate はトークンの有効性を検証する。トークンは消費しない。
// 発行先アドレスが空のトークンは移行前の発行分として宛先照合をスキップする。
func (s *Service) Validate(ctx context.Context, tokenStr, email string) (ValidationResult, error) {
	vt, err := s.tokens.FindByToken(ctx, tokenStr)
	if err != nil {
		return ValidationUnknown, fmt.Errorf("failed to look up verification token: %w", err)
	}

	result := ValidationOK
	switch {
	case vt == nil:
		result = ValidationUnknown
	case s.now().Unix()-vt.TokenTime > int64(s.ttl.Seconds()):
		result = ValidationExpired
	case vt.Email != "" && vt.Email != email:
		result = ValidationWrongRecipient
	}

	s.recordValidation(result)

	return result, nil
}

// recordValidation は検証結果をメトリクスに記録する。
func (s *Service) recordValidation(result ValidationResult) {
	if s.metrics == nil {
		return
	}
	switch result {
	case ValidationOK:
		s.metrics.RecordTokenValidation("ok")
	case ValidationUnknown:
		s.metrics.RecordTokenValidation("unknown")
	case ValidationExpired:
		s.metrics.RecordTokenValidation("expired")
	case ValidationWrongRecipient:
		s.metrics.RecordTokenValidation("wrong_recipient")
	}
}

// Consume はトークンを削除する（単回使用の保証）。
func (s *Service) Consume(ctx context.Context, tokenStr string) error {
	if err := s.tokens.DeleteByToken(ctx, tokenStr); err != nil {
		return fmt.Errorf("failed to consume verification token: %w", err)
	}
	return nil
}

// Discard は発行済みトークンを破棄する。メール送信失敗時の後始末に使用する。
func (s *Service) Discard(ctx context.Context, tokenStr string) error {
	if err := s.tokens.DeleteByToken(ctx, tokenStr); err != nil {
		return fmt.Errorf("failed to discard verification token: %w", err)
	}
	return nil
}

// DeleteExpired は期限切れトークンを一括削除し、削除件数を返す。
func (s *Service) DeleteExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.ttl).Unix()
	deleted, err := s.tokens.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return deleted, nil
}
