package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/makerspace/internal/metrics"
	"github.com/hitoshi/makerspace/internal/model"
	"github.com/hitoshi/makerspace/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	// CreateTask はタスクを作成し、先頭タグのマシンを自動登録する。
	CreateTask(ctx context.Context, name, description, person string, tags []string) (*model.Task, error)
	// GetTask はIDでタスクを取得する。
	GetTask(ctx context.Context, id string) (*model.Task, error)
	// ListTasks は全タスクを返す。
	ListTasks(ctx context.Context) ([]*model.Task, error)
	// UpdateTask は指定フィールドのみを更新する。作成日時は変更しない。
	UpdateTask(ctx context.Context, id string, upd task.Update) (*model.Task, error)
	// ResolveTask はタスクを完了扱いにする。レコードは削除しない。
	ResolveTask(ctx context.Context, id string) (*model.Task, error)
}

// TaskHandler はメンテナンスタスク管理のHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
	metrics metrics.MetricsCollector
}

// NewTaskHandler はTaskHandlerを生成する。collectorはnilでもよい。
func NewTaskHandler(service TaskServiceInterface, collector metrics.MetricsCollector) *TaskHandler {
	return &TaskHandler{
		service: service,
		metrics: collector,
	}
}

// createTaskRequest はタスク作成リクエストのボディ。
type createTaskRequest struct {
	TaskName    string   `json:"task_name"`
	Description string   `json:"description"`
	Person      string   `json:"person"`
	Tags        []string `json:"tags"`
}

// updateTaskRequest はタスク更新リクエストのボディ。
// nilのフィールドは変更しない。
type updateTaskRequest struct {
	TaskName    *string   `json:"task_name"`
	Description *string   `json:"description"`
	Person      *string   `json:"person"`
	Tags        *[]string `json:"tags"`
	TaskStatus  *int      `json:"task_status"`
}

// taskResponse はタスク情報のAPIレスポンス。
type taskResponse struct {
	TaskID         string   `json:"task_id"`
	TaskName       string   `json:"task_name"`
	Description    string   `json:"task_description"`
	Person         string   `json:"person"`
	CreationDate   int64    `json:"creation_date"`
	CompletionDate int64    `json:"completion_date"`
	Tags           []string `json:"tags"`
	TaskStatus     int      `json:"task_status"`
}

// CreateTask はタスク作成を処理する。
// POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !parseJSONBody(w, r, &req) {
		return
	}

	if _, err := h.service.CreateTask(r.Context(), req.TaskName, req.Description, req.Person, req.Tags); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTaskCreated()
	}

	writeResponse(w, http.StatusOK, "1")
}

// GetTask はタスク詳細を取得する。
// GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, toTaskResponse(t))
}

// ListTasks は全タスクの一覧を取得する。
// GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, toTaskResponse(t))
	}

	writeResponse(w, http.StatusOK, resp)
}

// UpdateTask はタスクの部分更新を処理する。
// PATCH /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTaskRequest
	if !parseJSONBody(w, r, &req) {
		return
	}

	t, err := h.service.UpdateTask(r.Context(), id, task.Update{
		Name:        req.TaskName,
		Description: req.Description,
		Person:      req.Person,
		Tags:        req.Tags,
		Status:      req.TaskStatus,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, toTaskResponse(t))
}

// ResolveTask はタスクの完了を処理する。レコードは残る。
// DELETE /api/tasks/{id}
func (h *TaskHandler) ResolveTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.service.ResolveTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTaskResolved()
	}

	writeResponse(w, http.StatusOK, toTaskResponse(t))
}

// toTaskResponse はmodel.TaskからAPIレスポンスに変換する。
func toTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		TaskID:         t.ID,
		TaskName:       t.Name,
		Description:    t.Description,
		Person:         t.Person,
		CreationDate:   t.CreationDate,
		CompletionDate: t.CompletionDate,
		Tags:           t.Tags,
		TaskStatus:     t.Status,
	}
}
