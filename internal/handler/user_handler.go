package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/hitoshi/makerspace/internal/identity"
	"github.com/hitoshi/makerspace/internal/metrics"
	"github.com/hitoshi/makerspace/internal/model"
)

// UserServiceInterface はメンテナーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// RequestVerificationToken は検証トークンを発行しメールで送信する。
	RequestVerificationToken(ctx context.Context, email string) error
	// CreateUser は検証トークンを確認した上でメンテナーを登録する。
	CreateUser(ctx context.Context, firstName, lastName, email, password, tokenStr string) (*model.User, error)
	// GetUsers はIDリストでメンテナーを取得する。空リストは全件を返す。
	GetUsers(ctx context.Context, ids []string) ([]*model.User, error)
	// Login はIDディレクトリに対して認証する。
	Login(ctx context.Context, email, password string) (*identity.AuthResult, error)
}

// UserHandler はメンテナー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
	metrics metrics.MetricsCollector
}

// NewUserHandler はUserHandlerを生成する。collectorはnilでもよい。
func NewUserHandler(service UserServiceInterface, collector metrics.MetricsCollector) *UserHandler {
	return &UserHandler{
		service: service,
		metrics: collector,
	}
}

// createUserRequest はメンテナー登録リクエストのボディ。
type createUserRequest struct {
	UserToken string `json:"user_token"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// requestTokenRequest は検証トークン発行リクエストのボディ。
type requestTokenRequest struct {
	Email string `json:"email"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse はメンテナー情報のAPIレスポンス。
// 一覧取得ではemailを公開しない。
type userResponse struct {
	UserID          string   `json:"user_id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	AssignedTasks   []string `json:"assigned_tasks"`
	UserPermissions []string `json:"user_permissions"`
}

// createdUserResponse はメンテナー登録のAPIレスポンス。
type createdUserResponse struct {
	User struct {
		UserID          string   `json:"user_id"`
		FirstName       string   `json:"first_name"`
		LastName        string   `json:"last_name"`
		Email           string   `json:"email"`
		AssignedTasks   []string `json:"assigned_tasks"`
		UserPermissions []string `json:"user_permissions"`
	} `json:"user"`
}

// loginResponse はログインのAPIレスポンス。
type loginResponse struct {
	AuthToken string `json:"auth_token"`
}

// CreateUser はメンテナー登録を処理する。
// POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !parseJSONBody(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.FirstName, req.LastName, req.Email, req.Password, req.UserToken)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordUserCreated()
	}

	var resp createdUserResponse
	resp.User.UserID = user.ID
	resp.User.FirstName = user.FirstName
	resp.User.LastName = user.LastName
	resp.User.Email = user.Email
	resp.User.AssignedTasks = user.AssignedTasks
	resp.User.UserPermissions = user.Permissions

	writeResponse(w, http.StatusOK, resp)
}

// GetUsers はメンテナー一覧を取得する。
// GET /api/users?users=id1,id2 （パラメータ省略時は全件）
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if raw := r.URL.Query().Get("users"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	users, err := h.service.GetUsers(r.Context(), ids)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{
			UserID:          u.ID,
			FirstName:       u.FirstName,
			LastName:        u.LastName,
			AssignedTasks:   u.AssignedTasks,
			UserPermissions: u.Permissions,
		})
	}

	writeResponse(w, http.StatusOK, resp)
}

// RequestToken は検証トークンの発行とメール送信を処理する。
// POST /api/users/token
func (h *UserHandler) RequestToken(w http.ResponseWriter, r *http.Request) {
	var req requestTokenRequest
	if !parseJSONBody(w, r, &req) {
		return
	}

	if err := h.service.RequestVerificationToken(r.Context(), req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, "1")
}

// Login はメンテナーの認証を処理する。
// POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !parseJSONBody(w, r, &req) {
		return
	}

	auth, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, loginResponse{AuthToken: auth.AccessToken})
}
