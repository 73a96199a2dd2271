// Package metrics exports domain counters and LLM latency to Prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/knowledge"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "rehabdesk"

// Recorder owns a registry and the collectors registered on it. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	remindersMaterialized *prometheus.CounterVec
	phrasesExtracted      prometheus.Counter
	llmRequests           *prometheus.CounterVec
	llmLatency            *prometheus.HistogramVec
	promptTokens          *prometheus.CounterVec
	chunksIngested        prometheus.Counter
	httpRequests          *prometheus.HistogramVec
}

var (
	_ generation.Observer     = (*Recorder)(nil)
	_ knowledge.ChunkObserver = (*Recorder)(nil)
)

// NewRecorder builds a Recorder on a fresh registry that also carries the Go
// runtime and process collectors.
func NewRecorder(namespace string) (*Recorder, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		remindersMaterialized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_materialized_total",
			Help:      "Reminders created from the schedule, by reminder type.",
		}, []string{"type"}),
		phrasesExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phrases_extracted_total",
			Help:      "Candidate phrases produced by the extraction pipeline.",
		}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "LLM completions by operation and outcome.",
		}, []string{"operation", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "LLM completion latency including retries.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"operation"}),
		promptTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_prompt_tokens_total",
			Help:      "Prompt tokens sent to the LLM, by operation.",
		}, []string{"operation"}),
		chunksIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "knowledge_chunks_ingested_total",
			Help:      "Knowledge base chunks embedded and indexed.",
		}),
		httpRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route pattern and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	toRegister := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.remindersMaterialized,
		r.phrasesExtracted,
		r.llmRequests,
		r.llmLatency,
		r.promptTokens,
		r.chunksIngested,
		r.httpRequests,
	}
	for _, c := range toRegister {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveCompletion implements generation.Observer.
func (r *Recorder) ObserveCompletion(op generation.Operation, outcome string, elapsed time.Duration, promptTokens int) {
	if r == nil {
		return
	}
	r.llmRequests.WithLabelValues(string(op), outcome).Inc()
	r.llmLatency.WithLabelValues(string(op)).Observe(elapsed.Seconds())
	if promptTokens > 0 {
		r.promptTokens.WithLabelValues(string(op)).Add(float64(promptTokens))
	}
}

// ObserveChunksIngested implements knowledge.ChunkObserver.
func (r *Recorder) ObserveChunksIngested(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.chunksIngested.Add(float64(n))
}

// ObserveRemindersMaterialized counts n reminders of one type.
func (r *Recorder) ObserveRemindersMaterialized(reminderType string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.remindersMaterialized.WithLabelValues(reminderType).Add(float64(n))
}

// ObservePhrasesExtracted counts pipeline output phrases.
func (r *Recorder) ObservePhrasesExtracted(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.phrasesExtracted.Add(float64(n))
}

// ObserveRequest records one served HTTP request. route is the matched route
// pattern, never the raw path.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
