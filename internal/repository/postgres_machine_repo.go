package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/makerspace/internal/model"
)

// PostgresMachineRepo はPostgreSQLを使用したマシンリポジトリ。
type PostgresMachineRepo struct {
	db *sql.DB
}

// NewPostgresMachineRepo はPostgresMachineRepoを生成する。
func NewPostgresMachineRepo(db *sql.DB) *PostgresMachineRepo {
	return &PostgresMachineRepo{db: db}
}

// Upsert はマシンを登録する。既に存在する場合は何もしない。
// タスク作成時の自動プロビジョニングで既存マシンの状態を壊さないための仕様。
func (r *PostgresMachineRepo) Upsert(ctx context.Context, machine *model.Machine) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO machines (machine_name, machine_status)
		 VALUES ($1, $2)
		 ON CONFLICT (machine_name) DO NOTHING`,
		machine.Name, machine.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert machine: %w", err)
	}
	return nil
}

// Save はマシンを登録する。既に存在する場合はmachine_statusを上書きする。
// マシン登録APIからの明示的な状態変更に使用する。
func (r *PostgresMachineRepo) Save(ctx context.Context, machine *model.Machine) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO machines (machine_name, machine_status)
		 VALUES ($1, $2)
		 ON CONFLICT (machine_name) DO UPDATE SET machine_status = EXCLUDED.machine_status`,
		machine.Name, machine.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to save machine: %w", err)
	}
	return nil
}

// FindByName は指定名のマシンを取得する。見つからない場合はnilを返す。
func (r *PostgresMachineRepo) FindByName(ctx context.Context, name string) (*model.Machine, error) {
	machine := &model.Machine{}
	err := r.db.QueryRowContext(ctx,
		`SELECT machine_name, machine_status FROM machines WHERE machine_name = $1`,
		name,
	).Scan(&machine.Name, &machine.Status)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find machine by name: %w", err)
	}

	return machine, nil
}

// ListAll は全マシンを名前昇順で返す。
func (r *PostgresMachineRepo) ListAll(ctx context.Context) ([]*model.Machine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT machine_name, machine_status FROM machines ORDER BY machine_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	defer rows.Close()

	var machines []*model.Machine
	for rows.Next() {
		machine := &model.Machine{}
		if err := rows.Scan(&machine.Name, &machine.Status); err != nil {
			return nil, fmt.Errorf("failed to scan machine: %w", err)
		}
		machines = append(machines, machine)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate machines: %w", err)
	}

	return machines, nil
}

// compile-time interface check
var _ MachineRepository = (*PostgresMachineRepo)(nil)
