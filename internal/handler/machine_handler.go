package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/makerspace/internal/model"
)

// MachineServiceInterface はマシンハンドラーが必要とするサービスインターフェース。
type MachineServiceInterface interface {
	// RegisterMachine はマシンを指定の状態で登録する。名前が重複しても失敗しない。
	RegisterMachine(ctx context.Context, name string, status int) (*model.Machine, error)
	// GetMachine は名前でマシンを取得する。
	GetMachine(ctx context.Context, name string) (*model.Machine, error)
	// ListMachines は全マシンを返す。
	ListMachines(ctx context.Context) ([]*model.Machine, error)
}

// MachineHandler はマシン管理のHTTPハンドラー。
type MachineHandler struct {
	service MachineServiceInterface
}

// NewMachineHandler はMachineHandlerを生成する。
func NewMachineHandler(service MachineServiceInterface) *MachineHandler {
	return &MachineHandler{
		service: service,
	}
}

// createMachineRequest はマシン登録リクエストのボディ。
// machine_status省略時はゼロ値（稼働状態）で登録される。
type createMachineRequest struct {
	MachineName   string `json:"machine_name"`
	MachineStatus int    `json:"machine_status"`
}

// machineResponse はマシン情報のAPIレスポンス。
type machineResponse struct {
	MachineName   string `json:"machine_name"`
	MachineStatus int    `json:"machine_status"`
}

// CreateMachine はマシン登録を処理する。
// POST /api/machines
func (h *MachineHandler) CreateMachine(w http.ResponseWriter, r *http.Request) {
	var req createMachineRequest
	if !parseJSONBody(w, r, &req) {
		return
	}

	if _, err := h.service.RegisterMachine(r.Context(), req.MachineName, req.MachineStatus); err != nil {
		handleServiceError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, "1")
}

// GetMachine はマシン詳細を取得する。
// GET /api/machines/{name}
func (h *MachineHandler) GetMachine(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	machine, err := h.service.GetMachine(r.Context(), name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, toMachineResponse(machine))
}

// ListMachines は全マシンの一覧を取得する。
// GET /api/machines
func (h *MachineHandler) ListMachines(w http.ResponseWriter, r *http.Request) {
	machines, err := h.service.ListMachines(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]machineResponse, 0, len(machines))
	for _, m := range machines {
		resp = append(resp, toMachineResponse(m))
	}

	writeResponse(w, http.StatusOK, resp)
}

// toMachineResponse はmodel.MachineからAPIレスポンスに変換する。
func toMachineResponse(machine *model.Machine) machineResponse {
	return machineResponse{
		MachineName:   machine.Name,
		MachineStatus: machine.Status,
	}
}
