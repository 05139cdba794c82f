/*
   sparsepoly - sparse polynomials with real coefficients

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU Affero General Public License as published by
   the Free Software Foundation, version 3.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Affero General Public License for more details.

   You should have received a copy of the GNU Affero General Public License
   along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package server

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sparsepoly/storage"
)

var serverMetrics = struct {
	polysAdded          prometheus.Counter
	polysReplaced       prometheus.Counter
	polysRemoved        prometheus.Counter
	operations          *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}{
	polysAdded: prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sparsepoly",
			Name:      "polys_added",
			Help:      "New polynomials stored since startup",
		},
	),
	polysReplaced: prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sparsepoly",
			Name:      "polys_replaced",
			Help:      "Stored polynomials replaced since startup",
		},
	),
	polysRemoved: prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sparsepoly",
			Name:      "polys_removed",
			Help:      "Stored polynomials removed since startup",
		},
	),
	operations: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sparsepoly",
			Name:      "operations_total",
			Help:      "Arithmetic operations served",
		},
		[]string{
			"op",
		},
	),
	httpRequestDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sparsepoly",
			Name:      "http_request_duration_seconds",
			Help:      "Time spent generating HTTP responses",
		},
		[]string{
			"method",
			"status_code",
		},
	),
}

var metricsRegister sync.Once

func registerMetrics() {
	metricsRegister.Do(func() {
		prometheus.MustRegister(serverMetrics.polysAdded)
		prometheus.MustRegister(serverMetrics.polysReplaced)
		prometheus.MustRegister(serverMetrics.polysRemoved)
		prometheus.MustRegister(serverMetrics.operations)
		prometheus.MustRegister(serverMetrics.httpRequestDuration)
	})
}

func metricsStorageNotifier(pc storage.PolyChange) error {
	switch pc.(type) {
	case storage.PolyAdded:
		serverMetrics.polysAdded.Inc()
	case storage.PolyReplaced:
		serverMetrics.polysReplaced.Inc()
	case storage.PolyRemoved:
		serverMetrics.polysRemoved.Inc()
	}
	return nil
}

func recordOperation(op string) {
	serverMetrics.operations.With(prometheus.Labels{"op": op}).Inc()
}

func recordHTTPRequestDuration(method string, statusCode int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "status_code": strconv.Itoa(statusCode)}
	serverMetrics.httpRequestDuration.With(labels).Observe(duration.Seconds())
}
