/*
Copyright © 2024 the Radish authors.
This file is part of Radish.

Radish is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Radish is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Radish.  If not, see <http://www.gnu.org/licenses/>.
*/

package radishutil

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for served reads.
type Metrics struct {
	Reads          *prometheus.CounterVec   // labels: op={scan,sweep}, outcome={success,error}
	ReadDuration   *prometheus.HistogramVec // labels: op={scan,sweep}
	MomentsDecoded prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics creates the read metrics and registers them with reg.
// If reg is nil they are not registered, which is useful for testing.
// If reg is also a prometheus.Gatherer, such as a *prometheus.Registry,
// the server's /metrics endpoint reports from it; otherwise it reports
// from the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "radish",
			Name:      "reads_total",
			Help:      "Radar file reads by operation and outcome.",
		}, []string{"op", "outcome"}),
		ReadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "radish",
			Name:      "read_duration_seconds",
			Help:      "Duration of radar file reads, including cache hits.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"op"}),
		MomentsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radish",
			Name:      "moments_decoded_total",
			Help:      "Moments converted from stored to physical values.",
		}),
	}
	m.gatherer = prometheus.DefaultGatherer
	if reg != nil {
		reg.MustRegister(m.Reads, m.ReadDuration, m.MomentsDecoded)
		if g, ok := reg.(prometheus.Gatherer); ok {
			m.gatherer = g
		}
	}
	return m
}

// observe records the outcome of a read that started at start.
func (m *Metrics) observe(op string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.Reads.WithLabelValues(op, outcome).Inc()
	m.ReadDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
