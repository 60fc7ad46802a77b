// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/makerspace/internal/model"
)

// MachineRepository はマシンデータの永続化インターフェース。
type MachineRepository interface {
	// Upsert はマシンを登録する。既に存在する場合は何もしない。
	Upsert(ctx context.Context, machine *model.Machine) error

	// Save はマシンを登録する。既に存在する場合はmachine_statusを上書きする。
	Save(ctx context.Context, machine *model.Machine) error

	// FindByName は指定名のマシンを取得する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Machine, error)

	// ListAll は全マシンを名前昇順で返す。
	ListAll(ctx context.Context) ([]*model.Machine, error)
}

// TaskRepository はメンテナンスタスクの永続化インターフェース。
type TaskRepository interface {
	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// ListAll は全タスクを作成日時降順で返す。
	ListAll(ctx context.Context) ([]*model.Task, error)

	// Update はタスクを上書き更新する。creation_dateは変更しない。
	Update(ctx context.Context, task *model.Task) error
}

// VisitorRepository は訪問者データの永続化インターフェース。
type VisitorRepository interface {
	// Create は訪問者を作成する。
	Create(ctx context.Context, visitor *model.Visitor) error

	// FindByHardwareID はhardware_idで訪問者を検索する。
	// 同一hardware_idが複数存在する場合は最初に登録されたものを返す。
	// 見つからない場合はnilを返す。
	FindByHardwareID(ctx context.Context, hardwareID string) (*model.Visitor, error)

	// ListAll は全訪問者を返す。
	ListAll(ctx context.Context) ([]*model.Visitor, error)
}

// VisitRepository は来館イベントの永続化インターフェース。
type VisitRepository interface {
	// Create は訪問を作成する。
	Create(ctx context.Context, visit *model.Visit) error

	// FindLatestOpenByVisitorID は指定訪問者の未退館（visit_duration = 0）の訪問のうち
	// 最新のものを返す。見つからない場合はnilを返す。
	FindLatestOpenByVisitorID(ctx context.Context, visitorID string) (*model.Visit, error)

	// UpdateDuration は訪問の滞在時間を更新する。
	UpdateDuration(ctx context.Context, visitID string, duration int64) error

	// ListInWindow はvisit_timeが [start, end] に含まれる訪問を時刻昇順で返す。
	ListInWindow(ctx context.Context, start, end int64) ([]*model.Visit, error)
}

// UserRepository はメンテナーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// ListAll は全ユーザーを返す。
	ListAll(ctx context.Context) ([]*model.User, error)
}

// TokenRepository はメール検証トークンの永続化インターフェース。
type TokenRepository interface {
	// Create はトークンを保存する。
	Create(ctx context.Context, token *model.VerificationToken) error

	// FindByToken はトークン文字列でトークンを検索する。見つからない場合はnilを返す。
	FindByToken(ctx context.Context, token string) (*model.VerificationToken, error)

	// DeleteByToken はトークンを削除する。存在しない場合もエラーにしない。
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpiredBefore はtoken_timeがcutoffより前のトークンを削除し、削除件数を返す。
	DeleteExpiredBefore(ctx context.Context, cutoff int64) (int64, error)
}
