package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/makerspace/internal/model"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeResponse はレスポンスボディをJSONエンコードして書き込む。
// 既存クライアント互換のため、Content-TypeはJSONボディでもtext/plainを宣言する。
func writeResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeResponse(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
// 402/405/406は既存クライアントが期待するコードであり変更しない。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidRequest, model.ErrCodeEmailInUse:
		return http.StatusBadRequest
	case model.ErrCodeIdentityError:
		return http.StatusPaymentRequired
	case model.ErrCodeAuthFailed:
		return http.StatusForbidden
	case model.ErrCodeTokenInvalid:
		return http.StatusMethodNotAllowed
	case model.ErrCodeTokenExpired:
		return http.StatusNotAcceptable
	case model.ErrCodeMachineNotFound, model.ErrCodeTaskNotFound,
		model.ErrCodeVisitorNotFound, model.ErrCodeNoOpenVisit:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// parseJSONBody はリクエストボディをJSONとして解析する。
// 解析に失敗した場合は400レスポンスを書き込み、falseを返す。
func parseJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidRequest,
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return false
	}
	return true
}
