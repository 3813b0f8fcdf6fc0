// Package metrics records HTTP request outcomes with Prometheus. The API
// client uses it for outbound calls and the development backend for
// inbound ones.
package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives one observation per finished request. statusCode is 0
// when no response was received.
type Recorder interface {
	RecordRequest(endpoint string, statusCode int, d time.Duration)
}

// Collector is the Prometheus Recorder.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewCollector registers the request counter and latency histogram on reg.
// subsystem separates client ("api_client") from server ("http_server")
// series.
func NewCollector(reg prometheus.Registerer, subsystem string) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flock",
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Requests by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flock",
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	reg.MustRegister(c.requests, c.latency)
	return c
}

func (c *Collector) RecordRequest(endpoint string, statusCode int, d time.Duration) {
	c.requests.WithLabelValues(endpoint, codeLabel(statusCode)).Inc()
	c.latency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func codeLabel(statusCode int) string {
	if statusCode == 0 {
		return "error"
	}
	return strconv.Itoa(statusCode)
}

type nop struct{}

func (nop) RecordRequest(string, int, time.Duration) {}

// Nop discards observations.
func Nop() Recorder { return nop{} }

// Handler serves the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RequestCount is one series of the request counter.
type RequestCount struct {
	Endpoint string
	Code     string
	Count    float64
}

// RequestCounts reads the request counter of subsystem back from gatherer,
// ordered by endpoint and code.
func RequestCounts(gatherer prometheus.Gatherer, subsystem string) ([]RequestCount, error) {
	families, err := gatherer.Gather()
	if err != nil {
		return nil, err
	}

	name := prometheus.BuildFQName("flock", subsystem, "requests_total")
	var out []RequestCount
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			rc := RequestCount{Count: m.GetCounter().GetValue()}
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "endpoint":
					rc.Endpoint = lp.GetValue()
				case "code":
					rc.Code = lp.GetValue()
				}
			}
			out = append(out, rc)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Endpoint != out[j].Endpoint {
			return out[i].Endpoint < out[j].Endpoint
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}
