/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package controller

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors the admin surface's /metrics
// endpoint exposes for the Controller and turbocache.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	TurbocacheHits   prometheus.Counter
	TurbocacheMisses prometheus.Counter
	PoolErrorsTotal  *prometheus.CounterVec
}

// NewMetrics registers a fresh Metrics set against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "passenger_core_requests_total",
			Help: "Total requests handled by the Request Controller, by final state.",
		}, []string{"state"}),
		TurbocacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "passenger_core_turbocache_hits_total",
			Help: "Requests served directly from the turbocache.",
		}),
		TurbocacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "passenger_core_turbocache_misses_total",
			Help: "Cache-eligible requests that missed the turbocache.",
		}),
		PoolErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "passenger_core_pool_errors_total",
			Help: "Errors returned by the Application Pool's get callback, by error code.",
		}, []string{"code"}),
	}

	if reg != nil {
		reg.MustRegister(m.RequestsTotal, m.TurbocacheHits, m.TurbocacheMisses, m.PoolErrorsTotal)
	}
	return m
}
