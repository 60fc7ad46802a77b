// Package user はメンテナー登録とログインのドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/makerspace/internal/identity"
	"github.com/hitoshi/makerspace/internal/mail"
	"github.com/hitoshi/makerspace/internal/model"
	"github.com/hitoshi/makerspace/internal/repository"
	"github.com/hitoshi/makerspace/internal/token"
)

// TokenManager は検証トークン操作のうちユーザー登録が必要とする部分。
type TokenManager interface {
	// Mint はトークンを発行して保存する。
	Mint(ctx context.Context, email string) (*model.VerificationToken, error)
	// Validate はトークンの有効性を検証する。
	Validate(ctx context.Context, tokenStr, email string) (token.ValidationResult, error)
	// Consume はトークンを削除する。
	Consume(ctx context.Context, tokenStr string) error
	// Discard は発行済みトークンを破棄する。
	Discard(ctx context.Context, tokenStr string) error
}

// Service はメンテナーに関するビジネスロジックを提供する。
type Service struct {
	users     repository.UserRepository
	tokens    TokenManager
	directory identity.Directory
	sender    mail.Sender

	// メンテナープールのクライアントID
	poolClientID string
}

// NewService はServiceを生成する。
func NewService(
	users repository.UserRepository,
	tokens TokenManager,
	directory identity.Directory,
	sender mail.Sender,
	poolClientID string,
) *Service {
	return &Service{
		users:        users,
		tokens:       tokens,
		directory:    directory,
		sender:       sender,
		poolClientID: poolClientID,
	}
}

// RequestVerificationToken は検証トークンを発行し、指定アドレスにメールで送付する。
// メール送信に失敗した場合は発行済みトークンを破棄してエラーを返す。
func (s *Service) RequestVerificationToken(ctx context.Context, email string) error {
	if email == "" {
		return model.NewInvalidRequestError("email is required")
	}

	vt, err := s.tokens.Mint(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to mint verification token: %w", err)
	}

	msg := mail.Message{
		To:      email,
		Subject: "MakerSpace maintainer verification token",
		Body:    fmt.Sprintf("Use this token to complete your maintainer registration: %s\nThe token expires in 24 hours.", vt.Token),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		// 届かないトークンを残すと再発行時に紛らわしいため破棄する
		if derr := s.tokens.Discard(ctx, vt.Token); derr != nil {
			slog.Error("メール送信失敗後のトークン破棄に失敗",
				slog.Any("error", derr),
			)
		}
		return fmt.Errorf("failed to send verification mail: %w", err)
	}

	return nil
}

// CreateUser は検証トークンを確認した上でメンテナーを登録する。
// 手順: トークン検証 → IDディレクトリへのサインアップ → ユーザー永続化 → トークン消費。
// トークンの消費は登録が完全に成功した後に行い、途中失敗時の再試行を可能にする。
func (s *Service) CreateUser(ctx context.Context, firstName, lastName, email, password, tokenStr string) (*model.User, error) {
	if firstName == "" || lastName == "" || email == "" || password == "" || tokenStr == "" {
		return nil, model.NewInvalidRequestError("first_name, last_name, email, password and token are required")
	}

	result, err := s.tokens.Validate(ctx, tokenStr, email)
	if err != nil {
		return nil, fmt.Errorf("failed to validate verification token: %w", err)
	}
	switch result {
	case token.ValidationOK:
		// continue
	case token.ValidationExpired:
		return nil, model.NewTokenExpiredError()
	default:
		return nil, model.NewTokenInvalidError()
	}

	attrs := identity.SignUpAttributes{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	outcome, reason, err := s.directory.SignUp(ctx, s.poolClientID, email, password, attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to sign up maintainer account: %w", err)
	}
	switch outcome {
	case identity.SignUpOK:
		// continue
	case identity.SignUpAlreadyExists:
		return nil, model.NewEmailInUseError()
	default:
		return nil, model.NewIdentityError(reason)
	}

	user, err := model.NewUser(firstName, lastName, email)
	if err != nil {
		return nil, fmt.Errorf("failed to build user: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		// ディレクトリにはアカウントが残る。手動での回収が必要なためログに残す。
		slog.Error("ディレクトリ登録後のユーザー永続化に失敗",
			slog.String("email", email),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	if err := s.tokens.Consume(ctx, tokenStr); err != nil {
		slog.Error("登録完了後のトークン消費に失敗",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	slog.Info("メンテナーを登録",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// GetUsers は指定IDのユーザーを返す。存在しないIDは黙ってスキップする。
// IDが指定されない場合は全ユーザーを返す。
func (s *Service) GetUsers(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		users, err := s.users.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return users, nil
	}

	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		if user == nil {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// Login はメンテナーの認証を行い、ディレクトリの発行したトークン一式を返す。
func (s *Service) Login(ctx context.Context, email, password string) (*identity.AuthResult, error) {
	if email == "" || password == "" {
		return nil, model.NewInvalidRequestError("email and password are required")
	}

	result, err := s.directory.InitiateAuth(ctx, s.poolClientID, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrNotAuthorized) {
			return nil, model.NewAuthFailedError()
		}
		return nil, fmt.Errorf("failed to initiate auth: %w", err)
	}

	return result, nil
}

// compile-time interface check
var _ TokenManager = (*token.Service)(nil)
