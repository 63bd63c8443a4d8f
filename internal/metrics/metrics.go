// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// account.Service、concept.Service、ロギングミドルウェアから利用する。
type Collector struct {
	registrations prometheus.Counter
	approvals     prometheus.Counter
	rejections    prometheus.Counter
	logins        prometheus.Counter
	conceptWrites *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tutorhub_registrations_total",
			Help: "ユーザー登録の合計数",
		}),
		approvals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tutorhub_approvals_total",
			Help: "ユーザー承認の合計数",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tutorhub_rejections_total",
			Help: "ユーザー却下の合計数",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tutorhub_logins_total",
			Help: "ログイン成功の合計数",
		}),
		conceptWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorhub_concept_writes_total",
			Help: "コンセプト書き込み操作の合計数",
		}, []string{"operation"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutorhub_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.registrations,
		c.approvals,
		c.rejections,
		c.logins,
		c.conceptWrites,
		c.httpStatus,
	)

	return c
}

// RecordRegistration はユーザー登録を記録する。
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordApproval はユーザー承認を記録する。
func (c *Collector) RecordApproval() {
	c.approvals.Inc()
}

// RecordRejection はユーザー却下を記録する。
func (c *Collector) RecordRejection() {
	c.rejections.Inc()
}

// RecordLogin はログイン成功を記録する。
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordConceptWrite はコンセプト書き込み操作（create/update/delete）を記録する。
func (c *Collector) RecordConceptWrite(operation string) {
	c.conceptWrites.WithLabelValues(operation).Inc()
}

// RecordHTTPStatus はHTTPレスポンスのステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler は指定されたGathererのメトリクス公開ハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
