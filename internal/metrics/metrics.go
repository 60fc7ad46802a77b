// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやワーカーから利用する。
type MetricsCollector interface {
	RecordVisitorCreated()
	RecordVisitRecorded(isNew bool)
	RecordTaskCreated()
	RecordTaskResolved()
	RecordUserCreated()
	RecordTokenValidation(outcome string)
	RecordTokensSwept(count int64)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	visitorsCreated prometheus.Counter
	visitsRecorded  *prometheus.CounterVec
	tasksCreated    prometheus.Counter
	tasksResolved   prometheus.Counter
	usersCreated    prometheus.Counter
	tokenValidation *prometheus.CounterVec
	tokensSwept     prometheus.Counter
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		visitorsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makerspace_visitors_created_total",
			Help: "新規登録された訪問者の合計数",
		}),
		visitsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "makerspace_visits_recorded_total",
			Help: "記録された訪問の合計数（初回/再訪別）",
		}, []string{"is_new"}),
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makerspace_tasks_created_total",
			Help: "作成されたメンテナンスタスクの合計数",
		}),
		tasksResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makerspace_tasks_resolved_total",
			Help: "完了したメンテナンスタスクの合計数",
		}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makerspace_users_created_total",
			Help: "登録されたメンテナーの合計数",
		}),
		tokenValidation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "makerspace_token_validation_total",
			Help: "検証トークンの検証結果別の合計数",
		}, []string{"outcome"}),
		tokensSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "makerspace_tokens_swept_total",
			Help: "掃除された期限切れトークンの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "makerspace_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.visitorsCreated,
		c.visitsRecorded,
		c.tasksCreated,
		c.tasksResolved,
		c.usersCreated,
		c.tokenValidation,
		c.tokensSwept,
		c.httpStatus,
	)

	return c
}

// RecordVisitorCreated は訪問者の新規登録を記録する。
func (c *Collector) RecordVisitorCreated() {
	c.visitorsCreated.Inc()
}

// RecordVisitRecorded は訪問の記録を記録する。
func (c *Collector) RecordVisitRecorded(isNew bool) {
	label := "0"
	if isNew {
		label = "1"
	}
	c.visitsRecorded.WithLabelValues(label).Inc()
}

// RecordTaskCreated はタスク作成を記録する。
func (c *Collector) RecordTaskCreated() {
	c.tasksCreated.Inc()
}

// RecordTaskResolved はタスク完了を記録する。
func (c *Collector) RecordTaskResolved() {
	c.tasksResolved.Inc()
}

// RecordUserCreated はメンテナー登録を記録する。
func (c *Collector) RecordUserCreated() {
	c.usersCreated.Inc()
}

// RecordTokenValidation はトークン検証結果を記録する。
// outcomeは "ok", "unknown", "expired", "wrong_recipient" のいずれか。
func (c *Collector) RecordTokenValidation(outcome string) {
	c.tokenValidation.WithLabelValues(outcome).Inc()
}

// RecordTokensSwept は掃除された期限切れトークン数を記録する。
func (c *Collector) RecordTokensSwept(count int64) {
	c.tokensSwept.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
