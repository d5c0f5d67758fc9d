package metrics

import (
	"net/http"

	"flagframe/framing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the Prometheus metrics for one link
type Metrics struct {
	registry *prometheus.Registry

	// Receive side
	BytesReceived  prometheus.Counter
	BytesDiscarded prometheus.Counter
	FramesDecoded  prometheus.Counter
	FrameAborts    *prometheus.CounterVec
	FrameSize      prometheus.Histogram

	// Transmit side
	BytesSent     prometheus.Counter
	FramesEncoded prometheus.Counter
	EncodeErrors  prometheus.Counter

	// Link
	ReadErrors prometheus.Counter
}

// NewMetrics creates all metrics on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "flagframe_bytes_received_total",
			Help: "Total number of bytes read from the link",
		}),
		BytesDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "flagframe_bytes_discarded_total",
			Help: "Bytes skipped while waiting for a start flag",
		}),
		FramesDecoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "flagframe_frames_decoded_total",
			Help: "Total number of complete frames decoded",
		}),
		FrameAborts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flagframe_frame_aborts_total",
			Help: "Partial frames dropped during resynchronization",
		}, []string{"reason"}),
		FrameSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "flagframe_frame_size_bytes",
			Help:    "Size of decoded frame payloads",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1B to 2KB
		}),

		BytesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "flagframe_bytes_sent_total",
			Help: "Total number of encoded bytes written to the link",
		}),
		FramesEncoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "flagframe_frames_encoded_total",
			Help: "Total number of frames encoded and written",
		}),
		EncodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "flagframe_encode_errors_total",
			Help: "Frames rejected by the encoder",
		}),

		ReadErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "flagframe_read_errors_total",
			Help: "Errors returned by the link while reading",
		}),
	}
}

// Observer returns a decoder observer that feeds the receive-side metrics.
// BytesReceived is counted by the reader, not here.
func (m *Metrics) Observer() framing.Observer {
	return func(ev framing.Event) {
		switch ev.Action {
		case framing.ActionDiscard:
			m.BytesDiscarded.Inc()
		case framing.ActionDeliver:
			m.FramesDecoded.Inc()
			m.FrameSize.Observe(float64(ev.Len))
		case framing.ActionAbort:
			m.FrameAborts.WithLabelValues(ev.Reason.String()).Inc()
		}
	}
}

// RecordSend records one successfully written frame of n encoded bytes.
func (m *Metrics) RecordSend(n int) {
	m.FramesEncoded.Inc()
	m.BytesSent.Add(float64(n))
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
