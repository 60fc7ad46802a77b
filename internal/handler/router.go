package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/makerspace/internal/metrics"
	"github.com/hitoshi/makerspace/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス（nil可）
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer

	// ドメインサービス
	MachineService MachineServiceInterface
	TaskService    TaskServiceInterface
	VisitorService VisitorServiceInterface
	UserService    UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → RequestID → Logging → CORS → RateLimit(General)
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewRequestIDMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Metrics != nil {
		r.Use(newHTTPStatusMiddleware(deps.Metrics))
	}

	machineHandler := NewMachineHandler(deps.MachineService)
	taskHandler := NewTaskHandler(deps.TaskService, deps.Metrics)
	visitorHandler := NewVisitorHandler(deps.VisitorService, deps.Metrics)
	userHandler := NewUserHandler(deps.UserService, deps.Metrics)

	// --- 運用ルート（レート制限の外） ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- APIルート ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// タスク管理
		r.Route("/api/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.CreateTask)
			r.Get("/", taskHandler.ListTasks)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTask)
				r.Patch("/", taskHandler.UpdateTask)
				// DELETEは完了扱い。レコードは消さない
				r.Delete("/", taskHandler.ResolveTask)
			})
		})

		// マシン管理
		r.Route("/api/machines", func(r chi.Router) {
			r.Post("/", machineHandler.CreateMachine)
			r.Get("/", machineHandler.ListMachines)
			r.Get("/{name}", machineHandler.GetMachine)
		})

		// 入退館
		r.Route("/api/visitors", func(r chi.Router) {
			r.Post("/", visitorHandler.SignIn)
			r.Get("/", visitorHandler.ListVisitors)
		})
		r.Route("/api/visits", func(r chi.Router) {
			r.Get("/", visitorHandler.ListVisits)
			r.Post("/signout", visitorHandler.SignOut)
		})

		// メンテナー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Post("/", userHandler.CreateUser)
			r.Get("/", userHandler.GetUsers)
			r.Post("/login", userHandler.Login)

			// POST /api/users/token - トークン発行（メール送信を伴うため専用レート制限を追加）
			if deps.RateLimiter != nil {
				r.With(deps.RateLimiter.TokenRequestMiddleware()).Post("/token", userHandler.RequestToken)
			} else {
				r.Post("/token", userHandler.RequestToken)
			}
		})
	})

	return r
}

// statusWriter はhttp.ResponseWriterをラップし、ステータスコードを捕捉する。
type statusWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.written {
		sw.statusCode = code
		sw.written = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.written {
		sw.statusCode = http.StatusOK
		sw.written = true
	}
	return sw.ResponseWriter.Write(b)
}

// newHTTPStatusMiddleware はレスポンスのステータスコードをメトリクスに記録するミドルウェアを返す。
func newHTTPStatusMiddleware(collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sw, r)
			collector.RecordHTTPStatus(sw.statusCode)
		})
	}
}
