package model

import "fmt"

// User は登録済みのメンテナー（ダッシュボード利用者）を表す。訪問者とは別概念。
// AssignedTasksはtask_idのリスト、Permissionsはコアでは解釈しない権限タグのリスト。
type User struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	AssignedTasks []string
	Permissions   []string
}

// NewUser は新しいUserを生成する。
// IDを採番し、assigned_tasksとuser_permissionsを空リストで初期化する。
func NewUser(firstName, lastName, email string) (*User, error) {
	id, err := NewUserID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	return &User{
		ID:            id,
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		AssignedTasks: []string{},
		Permissions:   []string{},
	}, nil
}
