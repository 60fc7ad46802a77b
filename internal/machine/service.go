// Package machine はマシン台帳の管理を提供する。
package machine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/makerspace/internal/model"
	"github.com/hitoshi/makerspace/internal/repository"
)

// Service はマシンに関するビジネスロジックを提供する。
type Service struct {
	machines repository.MachineRepository
}

// NewService はServiceを生成する。
func NewService(machines repository.MachineRepository) *Service {
	return &Service{machines: machines}
}

// RegisterMachine はマシンを指定の状態で登録する。
// 既に存在する場合はmachine_statusを指定値で上書きする（後勝ち）。
func (s *Service) RegisterMachine(ctx context.Context, name string, status int) (*model.Machine, error) {
	if name == "" {
		return nil, model.NewInvalidRequestError("machine name is required")
	}
	if name == model.UnboundMachineTag {
		return nil, model.NewInvalidRequestError("machine name is reserved")
	}

	m := &model.Machine{
		Name:   name,
		Status: status,
	}

	if err := s.machines.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to register machine: %w", err)
	}

	slog.Info("マシンを登録",
		slog.String("machine_name", name),
		slog.Int("machine_status", status),
	)

	return m, nil
}

// GetMachine は指定名のマシンを返す。
func (s *Service) GetMachine(ctx context.Context, name string) (*model.Machine, error) {
	m, err := s.machines.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get machine: %w", err)
	}
	if m == nil {
		return nil, model.NewMachineNotFoundError(name)
	}
	return m, nil
}

// ListMachines は全マシンを返す。
func (s *Service) ListMachines(ctx context.Context) ([]*model.Machine, error) {
	machines, err := s.machines.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return machines, nil
}
