package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sink owns a private prometheus.Registry instead of registering into the
// global default registry, so multiple Sinks (e.g. one per test) never
// collide and nothing here depends on package-level init() state.
type Sink struct {
	registry *prometheus.Registry
	start    time.Time

	RequestsTotal      *prometheus.CounterVec
	RequestErrorsTotal *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec

	InferenceTotal           *prometheus.CounterVec
	InferenceDuration        *prometheus.HistogramVec
	ModelInferenceTotal      *prometheus.CounterVec

	BatchesTotal    prometheus.Counter
	BatchDuration   prometheus.Histogram
	AverageBatchSize prometheus.GaugeFunc

	ActiveSessions prometheus.Gauge
	LoadedModels   prometheus.Gauge

	window *batchWindow
}

// Buckets controls the histogram bucket boundaries; callers typically pass
// Config.Metrics.LatencyBuckets.
func New(buckets []float64) *Sink {
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	reg := prometheus.NewRegistry()
	win := newBatchWindow(1000)

	s := &Sink{
		registry: reg,
		start:    time.Now(),
		window:   win,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onnx", Name: "requests_total", Help: "Total HTTP requests received.",
		}, []string{"route", "method", "status"}),
		RequestErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onnx", Name: "request_errors_total", Help: "Total HTTP requests that ended in an error response.",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onnx", Name: "request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: buckets,
		}, []string{"route", "method"}),
		InferenceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onnx", Name: "inference_total", Help: "Total inference calls executed.",
		}, []string{"model"}),
		InferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onnx", Name: "inference_duration_seconds", Help: "Inference execution latency in seconds.", Buckets: buckets,
		}, []string{"model"}),
		ModelInferenceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onnx", Name: "model_inference_total", Help: "Total inference calls per model.",
		}, []string{"model"}),
		BatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "onnx", Name: "batches_total", Help: "Total batches executed by the batch executor.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "onnx", Name: "batch_duration_seconds", Help: "Batch execution latency in seconds.", Buckets: buckets,
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "onnx", Name: "active_sessions", Help: "Number of currently loaded ONNX Runtime sessions.",
		}),
		LoadedModels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "onnx", Name: "loaded_models", Help: "Number of models currently loaded and ready.",
		}),
	}
	s.AverageBatchSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "onnx", Name: "average_batch_size", Help: "Moving average of the last 1000 executed batch sizes.",
	}, s.window.average)

	reg.MustRegister(
		s.RequestsTotal, s.RequestErrorsTotal, s.RequestDuration,
		s.InferenceTotal, s.InferenceDuration, s.ModelInferenceTotal,
		s.BatchesTotal, s.BatchDuration, s.AverageBatchSize,
		s.ActiveSessions, s.LoadedModels,
		uptimeCollector{start: s.start},
	)
	return s
}

// Registry exposes the underlying registry so internal/httpapi can mount it
// behind promhttp.HandlerFor.
func (s *Sink) Registry() *prometheus.Registry { return s.registry }

// RecordRequest records one completed HTTP request.
func (s *Sink) RecordRequest(route, method, status string, isError bool, dur time.Duration) {
	s.RequestsTotal.WithLabelValues(route, method, status).Inc()
	if isError {
		s.RequestErrorsTotal.WithLabelValues(route, status).Inc()
	}
	s.RequestDuration.WithLabelValues(route, method).Observe(dur.Seconds())
}

// RecordInference records one model.RunInference call.
func (s *Sink) RecordInference(model string, dur time.Duration) {
	s.InferenceTotal.WithLabelValues(model).Inc()
	s.ModelInferenceTotal.WithLabelValues(model).Inc()
	s.InferenceDuration.WithLabelValues(model).Observe(dur.Seconds())
}

// RecordBatch records one executed batch and feeds its size into the
// moving-average window.
func (s *Sink) RecordBatch(size int, dur time.Duration) {
	s.BatchesTotal.Inc()
	s.BatchDuration.Observe(dur.Seconds())
	s.window.add(size)
}

// AverageBatchSizeValue reads the current moving average directly, for
// callers (like the /status handler) that want the number without
// scraping Prometheus text format.
func (s *Sink) AverageBatchSizeValue() float64 { return s.window.average() }

// uptimeCollector exports onnx_server_uptime_seconds, a single gauge that
// cannot be expressed with NewGaugeFunc alone since it has no receiver.
type uptimeCollector struct{ start time.Time }

var uptimeDesc = prometheus.NewDesc("onnx_server_uptime_seconds", "Seconds since the process started.", nil, nil)

func (u uptimeCollector) Describe(ch chan<- *prometheus.Desc) { ch <- uptimeDesc }

func (u uptimeCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(uptimeDesc, prometheus.GaugeValue, time.Since(u.start).Seconds())
}
