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

// Package metrics serves the process-wide prometheus registry on its own
// listener, separate from the polynomial API.
package metrics

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"
	"gopkg.in/tomb.v2"
)

type Metrics struct {
	s   *Settings
	t   tomb.Tomb
	mux *http.ServeMux
	ln  net.Listener
}

func NewMetrics(s *Settings) *Metrics {
	if s == nil {
		s = DefaultSettings()
	}

	m := &Metrics{
		s:   s,
		mux: http.NewServeMux(),
	}
	m.mux.Handle(m.s.MetricsPath, promhttp.Handler())

	return m
}

// Addr returns the address the metrics endpoint is listening on, or nil if
// it has not been started.
func (m *Metrics) Addr() net.Addr {
	if m.ln == nil {
		return nil
	}
	return m.ln.Addr()
}

func (m *Metrics) Start() error {
	ln, err := net.Listen("tcp", m.s.MetricsAddr)
	if err != nil {
		return errgo.Notef(err, "cannot listen on %q", m.s.MetricsAddr)
	}
	m.ln = ln
	m.t.Go(func() error {
		log.Info("metrics: starting")
		if err := http.Serve(ln, m.mux); err != nil {
			select {
			case <-m.t.Dying():
				return nil
			default:
			}
			log.Errorf("failed to serve metrics: %v", err)
			return err
		}
		return nil
	})
	m.t.Go(func() error {
		<-m.t.Dying()
		return ln.Close()
	})
	return nil
}

func (m *Metrics) Stop() {
	log.Info("metrics: stopping")
	m.t.Kill(nil)
	if err := m.t.Wait(); err != nil {
		log.Error(errgo.Details(err))
	}
	log.Info("metrics: stopped")
}
