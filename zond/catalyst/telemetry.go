// Copyright 2023 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package catalyst

import "github.com/prometheus/client_golang/prometheus"

// promTelemetry taps every response with a counter vector keyed by method
// and resulting status/error code.
type promTelemetry struct {
	requests *prometheus.CounterVec
}

// newPromTelemetry registers the engine request counter with reg. reg may
// be nil, in which case the default global registry is used, matching how
// the rest of a node's subsystems register their own metrics.
func newPromTelemetry(reg prometheus.Registerer) *promTelemetry {
	t := &promTelemetry{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gzond",
			Subsystem: "engine",
			Name:      "requests_total",
			Help:      "Engine API requests by method and outcome.",
		}, []string{"method", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(t.requests)
	return t
}

func (t *promTelemetry) ObserveRequest(method, status string) {
	t.requests.WithLabelValues(method, status).Inc()
}
