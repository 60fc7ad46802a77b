package model

import (
	"fmt"
	"time"
)

// タスクのステータス値。0が未着手（オープン）、0以外はクローズ済み等を表す。
const (
	TaskStatusOpen     = 0
	TaskStatusResolved = 2
)

// Task はメンテナンスタスクを表す。
// Tagsの先頭要素は対象マシン名、マシンに紐付かない場合は"*"となる。
// Personは担当メンテナーのuser_id参照で、未割り当ての場合は空文字列。
type Task struct {
	ID             string
	Name           string
	Description    string
	Person         string
	CreationDate   int64
	CompletionDate int64
	Tags           []string
	Status         int
}

// NewTask は新しいTaskを生成する。
// IDを採番し、creation_dateに現在時刻、completion_dateに0を設定する。
// Tagsの解釈（マシン自動プロビジョニング）はサービス層の責務であり、
// このコンストラクタでは行わない。
func NewTask(name, description, person string, tags []string, status int) (*Task, error) {
	id, err := NewTaskID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID: %w", err)
	}

	return &Task{
		ID:             id,
		Name:           name,
		Description:    description,
		Person:         person,
		CreationDate:   time.Now().Unix(),
		CompletionDate: 0,
		Tags:           tags,
		Status:         status,
	}, nil
}
