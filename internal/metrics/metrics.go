package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total de requisições HTTP",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duração das requisições HTTP em segundos",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	leadsCriados = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_criados_total",
			Help: "Total de leads criados, por fonte",
		},
		[]string{"fonte"},
	)

	negociosGanhos = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "negocios_ganhos_total",
			Help: "Total de negócios movidos para o estágio de fechamento",
		},
	)

	automacoesExecutadas = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automacoes_executadas_total",
			Help: "Total de execuções (simuladas) de automações",
		},
		[]string{"status"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware instrumenta contagem e latência por rota.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadCriado(fonte string) {
	leadsCriados.WithLabelValues(fonte).Inc()
}

func RecordNegocioGanho() {
	negociosGanhos.Inc()
}

func RecordAutomacaoExecutada(status string) {
	automacoesExecutadas.WithLabelValues(status).Inc()
}
