package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/makerspace/internal/metrics"
	"github.com/hitoshi/makerspace/internal/model"
	"github.com/hitoshi/makerspace/internal/visitor"
)

// VisitorServiceInterface は訪問者ハンドラーが必要とするサービスインターフェース。
type VisitorServiceInterface interface {
	// SignIn はhardware_idで入館を記録する。未知のhardware_idは訪問者を新規登録する。
	SignIn(ctx context.Context, hardwareID, degreeType, firstName, lastName, major, email string) (*visitor.SignInResult, error)
	// SignOut は最新の未退館訪問を閉じる。
	SignOut(ctx context.Context, hardwareID string) (*model.Visit, error)
	// ListVisits は指定時間帯の訪問を返す。
	ListVisits(ctx context.Context, start, end int64) ([]*model.Visit, error)
	// ListVisitors は全訪問者を返す。
	ListVisitors(ctx context.Context) ([]*model.Visitor, error)
}

// VisitorHandler は訪問者管理のHTTPハンドラー。
type VisitorHandler struct {
	service VisitorServiceInterface
	metrics metrics.MetricsCollector
}

// NewVisitorHandler はVisitorHandlerを生成する。collectorはnilでもよい。
func NewVisitorHandler(service VisitorServiceInterface, collector metrics.MetricsCollector) *VisitorHandler {
	return &VisitorHandler{
		service: service,
		metrics: collector,
	}
}

// signInRequest は入館リクエストのボディ。
type signInRequest struct {
	HardwareID string `json:"hardware_id"`
	Visitor    struct {
		Email      string `json:"email"`
		DegreeType string `json:"degree_type"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		Major      string `json:"major"`
	} `json:"visitor"`
}

// signOutRequest は退館リクエストのボディ。
type signOutRequest struct {
	HardwareID string `json:"hardware_id"`
}

// visitorResponse は訪問者情報のAPIレスポンス。
type visitorResponse struct {
	VisitorID  string `json:"visitor_id"`
	HardwareID string `json:"hardware_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Major      string `json:"major"`
	DegreeType string `json:"degree_type"`
}

// visitResponse は訪問情報のAPIレスポンス。
type visitResponse struct {
	VisitID       string `json:"visit_id"`
	VisitorID     string `json:"visitor_id"`
	IsNew         string `json:"is_new"`
	VisitTime     int64  `json:"visit_time"`
	VisitDuration int64  `json:"visit_duration"`
}

// SignIn は入館を処理する。
// POST /api/visitors
func (h *VisitorHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !parseJSONBody(w, r, &req) {
		return
	}

	result, err := h.service.SignIn(r.Context(),
		req.HardwareID,
		req.Visitor.DegreeType,
		req.Visitor.FirstName,
		req.Visitor.LastName,
		req.Visitor.Major,
		req.Visitor.Email,
	)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		if result.IsNew {
			h.metrics.RecordVisitorCreated()
		}
		h.metrics.RecordVisitRecorded(result.IsNew)
	}

	body := "Created new visitor: " + result.Visitor.ID
	if !result.IsNew {
		body = "Visitor signed in: " + result.Visitor.ID
	}
	if result.Warning != "" {
		body += " (" + result.Warning + ")"
	}

	writeResponse(w, http.StatusOK, body)
}

// SignOut は退館を処理する。
// POST /api/visits/signout
func (h *VisitorHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req signOutRequest
	if !parseJSONBody(w, r, &req) {
		return
	}

	visit, err := h.service.SignOut(r.Context(), req.HardwareID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, toVisitResponse(visit))
}

// ListVisits は指定時間帯の訪問一覧を取得する。
// GET /api/visits?start_time=..&end_time=..
func (h *VisitorHandler) ListVisits(w http.ResponseWriter, r *http.Request) {
	start, ok := parseEpochParam(w, r, "start_time")
	if !ok {
		return
	}
	end, ok := parseEpochParam(w, r, "end_time")
	if !ok {
		return
	}

	visits, err := h.service.ListVisits(r.Context(), start, end)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]visitResponse, 0, len(visits))
	for _, v := range visits {
		resp = append(resp, toVisitResponse(v))
	}

	writeResponse(w, http.StatusOK, resp)
}

// ListVisitors は全訪問者の一覧を取得する。
// GET /api/visitors
func (h *VisitorHandler) ListVisitors(w http.ResponseWriter, r *http.Request) {
	visitors, err := h.service.ListVisitors(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]visitorResponse, 0, len(visitors))
	for _, v := range visitors {
		resp = append(resp, visitorResponse{
			VisitorID:  v.ID,
			HardwareID: v.HardwareID,
			FirstName:  v.FirstName,
			LastName:   v.LastName,
			Major:      v.Major,
			DegreeType: v.DegreeType,
		})
	}

	writeResponse(w, http.StatusOK, resp)
}

// parseEpochParam はクエリパラメータをエポック秒として解析する。
// 未指定は0として扱う。解析に失敗した場合は400を書き込み、falseを返す。
func parseEpochParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val < 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError(name+" must be a non-negative epoch timestamp"))
		return 0, false
	}
	return val, true
}

// toVisitResponse はmodel.VisitからAPIレスポンスに変換する。
func toVisitResponse(v *model.Visit) visitResponse {
	return visitResponse{
		VisitID:       v.ID,
		VisitorID:     v.VisitorID,
		IsNew:         v.IsNew,
		VisitTime:     v.VisitTime,
		VisitDuration: v.VisitDuration,
	}
}
