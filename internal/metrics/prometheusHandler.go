package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by route and status",
}, []string{"path", "status"})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active index build workers",
})

var indexBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "index_builds_total",
	Help: "Per document index builds labelled by outcome",
}, []string{"status"})

var indexedChunks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "indexed_chunks_total",
	Help: "Chunks embedded and persisted",
})

var answerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "answer_duration_seconds",
	Help:    "Total time spent answering a question.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

// HttpStatusRecorder keeps the status code for the request counter.
type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers (mcp) working behind the recorder.
func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *HttpStatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}

func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func CaptureIndexBuild(status string, chunks int) {
	indexBuilds.WithLabelValues(status).Inc()
	indexedChunks.Add(float64(chunks))
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureAnswerMetrics(label string, timeElapsed time.Duration) {
	answerDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
