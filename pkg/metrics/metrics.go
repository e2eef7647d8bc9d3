package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados usados como etiqueta.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics contadores del servicio de identidad. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	gatherer      prometheus.Gatherer
	authOps       *prometheus.CounterVec
	onboardings   *prometheus.CounterVec
	expiredSess   prometheus.Counter
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// New registra las métricas en un registro propio.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		authOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_auth_operations_total",
			Help: "Operaciones de autenticación por tipo y resultado.",
		}, []string{"operation", "result"}),
		onboardings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_onboardings_total",
			Help: "Onboardings de organizaciones por resultado.",
		}, []string{"result"}),
		expiredSess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_sessions_expired_total",
			Help: "Sesiones vencidas eliminadas durante la validación de tokens.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
	reg.MustRegister(m.authOps, m.onboardings, m.expiredSess, m.httpRequests, m.httpDurations)
	return m
}

// AuthOperation cuenta una operación (login, register, change_password...) con su resultado.
func (m *Metrics) AuthOperation(op, result string) {
	if m == nil {
		return
	}
	m.authOps.WithLabelValues(op, result).Inc()
}

// Onboarding cuenta un intento de onboarding.
func (m *Metrics) Onboarding(result string) {
	if m == nil {
		return
	}
	m.onboardings.WithLabelValues(result).Inc()
}

// SessionExpired cuenta una sesión vencida eliminada.
func (m *Metrics) SessionExpired() {
	if m == nil {
		return
	}
	m.expiredSess.Inc()
}

// ObserveHTTP registra una petición HTTP terminada.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, path, code).Inc()
	m.httpDurations.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// Gatherer expone el registro (tests).
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.gatherer }

// Handler handler HTTP de exposición en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
