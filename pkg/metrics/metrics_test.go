package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Identity-api/pkg/metrics"
)

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.AuthOperation("login", metrics.ResultOK)
		m.Onboarding(metrics.ResultError)
		m.SessionExpired()
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}

func TestAuthOperation_Cuenta(t *testing.T) {
	m := metrics.New()
	m.AuthOperation("login", metrics.ResultOK)
	m.AuthOperation("login", metrics.ResultOK)
	m.AuthOperation("login", metrics.ResultRejected)

	expected := `
# HELP identity_auth_operations_total Operaciones de autenticación por tipo y resultado.
# TYPE identity_auth_operations_total counter
identity_auth_operations_total{operation="login",result="ok"} 2
identity_auth_operations_total{operation="login",result="rejected"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected), "identity_auth_operations_total"))
}

func TestHandler_ExponeMetricas(t *testing.T) {
	m := metrics.New()
	m.Onboarding(metrics.ResultOK)
	m.ObserveHTTP("POST", "/api/auth/login", 401, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `identity_onboardings_total{result="ok"} 1`)
	assert.Contains(t, body, `http_requests_total{method="POST",path="/api/auth/login",status="401"} 1`)
}
