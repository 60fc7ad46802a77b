// Package task はメンテナンスタスクの管理を提供する。
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/makerspace/internal/model"
	"github.com/hitoshi/makerspace/internal/repository"
)

// Service はタスクに関するビジネスロジックを提供する。
type Service struct {
	tasks    repository.TaskRepository
	machines repository.MachineRepository
	now      func() time.Time
}

// NewService はServiceを生成する。
func NewService(tasks repository.TaskRepository, machines repository.MachineRepository) *Service {
	return &Service{
		tasks:    tasks,
		machines: machines,
		now:      time.Now,
	}
}

// Update はタスク更新の入力。nilのフィールドは変更しない。
// 作成日時は更新対象外。
type Update struct {
	Name        *string
	Description *string
	Person      *string
	Tags        *[]string
	Status      *int
}

// CreateTask はタスクを作成する。
// tagsの先頭要素は対象マシン名として扱い、未登録なら稼働状態で自動登録する。
// マシンに紐付かないタスクは先頭タグに "*" を指定する。
func (s *Service) CreateTask(ctx context.Context, name, description, person string, tags []string) (*model.Task, error) {
	if name == "" {
		return nil, model.NewInvalidRequestError("task name is required")
	}
	if len(tags) == 0 {
		return nil, model.NewInvalidRequestError("tags must contain the target machine name or \"*\"")
	}

	if tags[0] != model.UnboundMachineTag {
		m := &model.Machine{
			Name:   tags[0],
			Status: model.MachineStatusOperational,
		}
		if err := s.machines.Upsert(ctx, m); err != nil {
			return nil, fmt.Errorf("failed to provision machine for task: %w", err)
		}
	}

	task, err := model.NewTask(name, description, person, tags, model.TaskStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to build task: %w", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	slog.Info("タスクを作成",
		slog.String("task_id", task.ID),
		slog.String("machine", tags[0]),
	)

	return task, nil
}

// GetTask は指定IDのタスクを返す。
func (s *Service) GetTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(id)
	}
	return task, nil
}

// ListTasks は全タスクを返す。
func (s *Service) ListTasks(ctx context.Context) ([]*model.Task, error) {
	tasks, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask はタスクを部分更新する。作成日時は変更されない。
func (s *Service) UpdateTask(ctx context.Context, id string, upd Update) (*model.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, model.NewInvalidRequestError("task name must not be empty")
		}
		task.Name = *upd.Name
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Person != nil {
		task.Person = *upd.Person
	}
	if upd.Tags != nil {
		if len(*upd.Tags) == 0 {
			return nil, model.NewInvalidRequestError("tags must not be empty")
		}
		task.Tags = *upd.Tags
	}
	if upd.Status != nil {
		task.Status = *upd.Status
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// ResolveTask はタスクを完了状態にする。レコードは削除せず履歴として残す。
func (s *Service) ResolveTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Status = model.TaskStatusResolved
	task.CompletionDate = s.now().Unix()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to resolve task: %w", err)
	}

	slog.Info("タスクを完了",
		slog.String("task_id", task.ID),
	)

	return task, nil
}
