package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/makerspace/internal/machine"
	"github.com/hitoshi/makerspace/internal/model"
)

// --- モック ---

type mockMachineService struct {
	registerFn func(ctx context.Context, name string, status int) (*model.Machine, error)
	getFn      func(ctx context.Context, name string) (*model.Machine, error)
	listFn     func(ctx context.Context) ([]*model.Machine, error)
}

func (m *mockMachineService) RegisterMachine(ctx context.Context, name string, status int) (*model.Machine, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, name, status)
	}
	return &model.Machine{Name: name, Status: status}, nil
}
func (m *mockMachineService) GetMachine(ctx context.Context, name string) (*model.Machine, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name)
	}
	return &model.Machine{Name: name}, nil
}
func (m *mockMachineService) ListMachines(ctx context.Context) ([]*model.Machine, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// --- テスト ---

// TestMachineHandler_CreateMachine_Returns1 はマシン登録の成功レスポンスを検証する。
func TestMachineHandler_CreateMachine_Returns1(t *testing.T) {
	var registeredName string
	var registeredStatus int
	svc := &mockMachineService{
		registerFn: func(ctx context.Context, name string, status int) (*model.Machine, error) {
			registeredName = name
			registeredStatus = status
			return &model.Machine{Name: name, Status: status}, nil
		},
	}

	h := NewMachineHandler(svc)

	body := `{"machine_name":"Lathe-3","machine_status":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/machines", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.CreateMachine(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Content-Type = %q, want %q", ct, "text/plain")
	}

	raw, _ := io.ReadAll(resp.Body)
	var decoded string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("body should be a JSON string: %v", err)
	}
	if decoded != "1" {
		t.Errorf("body = %q, want %q", decoded, "1")
	}
	if registeredName != "Lathe-3" {
		t.Errorf("registered name = %q, want %q", registeredName, "Lathe-3")
	}
	if registeredStatus != 0 {
		t.Errorf("registered status = %d, want 0", registeredStatus)
	}
}

// statusRecordingMachineRepo はSaveに渡された状態を記録するインメモリリポジトリ。
type statusRecordingMachineRepo struct {
	machines map[string]*model.Machine
}

func (r *statusRecordingMachineRepo) Upsert(ctx context.Context, m *model.Machine) error {
	if _, ok := r.machines[m.Name]; !ok {
		r.machines[m.Name] = &model.Machine{Name: m.Name, Status: m.Status}
	}
	return nil
}
func (r *statusRecordingMachineRepo) Save(ctx context.Context, m *model.Machine) error {
	r.machines[m.Name] = &model.Machine{Name: m.Name, Status: m.Status}
	return nil
}
func (r *statusRecordingMachineRepo) FindByName(ctx context.Context, name string) (*model.Machine, error) {
	return r.machines[name], nil
}
func (r *statusRecordingMachineRepo) ListAll(ctx context.Context) ([]*model.Machine, error) {
	var out []*model.Machine
	for _, m := range r.machines {
		out = append(out, m)
	}
	return out, nil
}

// TestMachineHandler_CreateMachine_PersistsClientStatus はリクエストのmachine_statusが
// そのまま保存され、同名マシンの再登録で上書きされることを検証する。
func TestMachineHandler_CreateMachine_PersistsClientStatus(t *testing.T) {
	repo := &statusRecordingMachineRepo{machines: map[string]*model.Machine{}}
	h := NewMachineHandler(machine.NewService(repo))

	post := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/machines", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.CreateMachine(w, req)
		return w.Result().StatusCode
	}

	if status := post(`{"machine_name":"Lathe-3","machine_status":3}`); status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if m := repo.machines["Lathe-3"]; m == nil || m.Status != 3 {
		t.Fatalf("stored machine = %+v, want status 3", m)
	}

	// 再登録で状態が更新されること
	if status := post(`{"machine_name":"Lathe-3","machine_status":1}`); status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if m := repo.machines["Lathe-3"]; m == nil || m.Status != 1 {
		t.Fatalf("stored machine = %+v, want status 1", m)
	}
}

// TestMachineHandler_CreateMachine_InvalidBody はボディ不正で400が返ることを検証する。
func TestMachineHandler_CreateMachine_InvalidBody(t *testing.T) {
	h := NewMachineHandler(&mockMachineService{})

	req := httptest.NewRequest(http.MethodPost, "/api/machines", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.CreateMachine(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// TestMachineHandler_CreateMachine_EmptyName は空の名前で400が返ることを検証する。
func TestMachineHandler_CreateMachine_EmptyName(t *testing.T) {
	svc := &mockMachineService{
		registerFn: func(ctx context.Context, name string, status int) (*model.Machine, error) {
			return nil, model.NewInvalidRequestError("machine_name is required")
		},
	}
	h := NewMachineHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/machines", strings.NewReader(`{"machine_name":""}`))
	w := httptest.NewRecorder()

	h.CreateMachine(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// TestMachineHandler_ListMachines は一覧レスポンスの形式を検証する。
func TestMachineHandler_ListMachines(t *testing.T) {
	svc := &mockMachineService{
		listFn: func(ctx context.Context) ([]*model.Machine, error) {
			return []*model.Machine{
				{Name: "3d-printer", Status: 0},
				{Name: "laser-cutter", Status: 1},
			}, nil
		},
	}
	h := NewMachineHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/machines", nil)
	w := httptest.NewRecorder()

	h.ListMachines(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var machines []machineResponse
	if err := json.NewDecoder(resp.Body).Decode(&machines); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(machines) != 2 {
		t.Fatalf("len(machines) = %d, want 2", len(machines))
	}
	if machines[1].MachineName != "laser-cutter" || machines[1].MachineStatus != 1 {
		t.Errorf("unexpected machine: %+v", machines[1])
	}
}
