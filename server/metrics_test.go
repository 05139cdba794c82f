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
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	gc "gopkg.in/check.v1"

	"sparsepoly/storage"
)

type MetricsSuite struct{}

func counterValue(c *gc.C, counter prometheus.Counter) float64 {
	var m dto.Metric
	c.Assert(counter.Write(&m), gc.IsNil)
	return m.GetCounter().GetValue()
}

var _ = gc.Suite(&MetricsSuite{})

func (s *MetricsSuite) TestStorageNotifier(c *gc.C) {
	added := counterValue(c, serverMetrics.polysAdded)
	replaced := counterValue(c, serverMetrics.polysReplaced)
	removed := counterValue(c, serverMetrics.polysRemoved)

	c.Assert(metricsStorageNotifier(storage.PolyAdded{Name: "p"}), gc.IsNil)
	c.Assert(metricsStorageNotifier(storage.PolyReplaced{Name: "p"}), gc.IsNil)
	c.Assert(metricsStorageNotifier(storage.PolyReplaced{Name: "p"}), gc.IsNil)
	c.Assert(metricsStorageNotifier(storage.PolyRemoved{Name: "p"}), gc.IsNil)
	c.Assert(metricsStorageNotifier(storage.PolyNotChanged{Name: "p"}), gc.IsNil)

	c.Assert(counterValue(c, serverMetrics.polysAdded), gc.Equals, added+1)
	c.Assert(counterValue(c, serverMetrics.polysReplaced), gc.Equals, replaced+2)
	c.Assert(counterValue(c, serverMetrics.polysRemoved), gc.Equals, removed+1)
}

func (s *MetricsSuite) TestRecordOperation(c *gc.C) {
	counter := serverMetrics.operations.WithLabelValues("add")
	before := counterValue(c, counter)
	recordOperation("add")
	recordOperation("add")
	c.Assert(counterValue(c, counter), gc.Equals, before+2)
}
