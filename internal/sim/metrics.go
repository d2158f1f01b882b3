// MIT License
//
// Copyright (c) 2026 Moneta Labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package sim

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the harness counters to Prometheus. Each simulator run
// owns its registry so repeated runs in one process never collide.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    prometheus.Histogram
}

// NewMetrics builds a fresh registry with the harness collectors.
func NewMetrics(method string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "banksim_operations_total",
			Help:        "Operations attempted by the load harness, by result and failure reason.",
			ConstLabels: prometheus.Labels{"method": method},
		}, []string{"result", "reason"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "banksim_operation_latency_seconds",
			Help:        "Wall-clock latency of one harness operation.",
			ConstLabels: prometheus.Labels{"method": method},
			Buckets:     prometheus.DefBuckets,
		}),
	}
}

// Handler serves the run's registry, promhttp style.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(ok bool, reason string, seconds float64) {
	if ok {
		m.operations.WithLabelValues("success", "").Inc()
	} else {
		m.operations.WithLabelValues("failure", reason).Inc()
	}
	m.latency.Observe(seconds)
}
