package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/makerspace/internal/model"
)

// PostgresTokenRepo はPostgreSQLを使用した検証トークンリポジトリ。
type PostgresTokenRepo struct {
	db *sql.DB
}

// NewPostgresTokenRepo はPostgresTokenRepoを生成する。
func NewPostgresTokenRepo(db *sql.DB) *PostgresTokenRepo {
	return &PostgresTokenRepo{db: db}
}

// Create はトークンを保存する。
func (r *PostgresTokenRepo) Create(ctx context.Context, token *model.VerificationToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_verification_tokens (generated_token, token_time, user_email)
		 VALUES ($1, $2, $3)`,
		token.Token, token.TokenTime, token.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to insert verification token: %w", err)
	}
	return nil
}

// FindByToken はトークン文字列でトークンを検索する。見つからない場合はnilを返す。
func (r *PostgresTokenRepo) FindByToken(ctx context.Context, token string) (*model.VerificationToken, error) {
	vt := &model.VerificationToken{}
	err := r.db.QueryRowContext(ctx,
		`SELECT generated_token, token_time, user_email
		 FROM user_verification_tokens WHERE generated_token = $1`,
		token,
	).Scan(&vt.Token, &vt.TokenTime, &vt.Email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find verification token: %w", err)
	}

	return vt, nil
}

// DeleteByToken はトークンを削除する。存在しない場合もエラーにしない。
func (r *PostgresTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_verification_tokens WHERE generated_token = $1`,
		token,
	)
	if err != nil {
		return fmt.Errorf("failed to delete verification token: %w", err)
	}
	return nil
}

// DeleteExpiredBefore はtoken_timeがcutoffより前のトークンを削除し、削除件数を返す。
func (r *PostgresTokenRepo) DeleteExpiredBefore(ctx context.Context, cutoff int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_verification_tokens WHERE token_time < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// compile-time interface check
var _ TokenRepository = (*PostgresTokenRepo)(nil)
