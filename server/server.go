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

// Package server assembles storage, the polynomial HTTP API, logging and
// metrics into the polyd daemon.
package server

import (
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/carbocation/interpose"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"

	"sparsepoly/api"
	"sparsepoly/metrics"
	"sparsepoly/storage"
	"sparsepoly/storage/leveldb"
	"sparsepoly/storage/pg"
)

type Server struct {
	settings        *Settings
	st              storage.Storage
	middle          *interpose.Middleware
	r               *httprouter.Router
	logWriter       io.WriteCloser
	metricsListener *metrics.Metrics
	metricsStarted  bool

	t        tomb.Tomb
	ln       net.Listener
	httpAddr string
}

type statusCodeResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func NewStatusCodeResponseWriter(w http.ResponseWriter) *statusCodeResponseWriter {
	// WriteHeader is not called if our response implicitly
	// returns 200 OK, so we default to that status code.
	return &statusCodeResponseWriter{w, http.StatusOK}
}

func (scrw *statusCodeResponseWriter) WriteHeader(code int) {
	scrw.statusCode = code
	scrw.ResponseWriter.WriteHeader(code)
}

func NewServer(settings *Settings) (*Server, error) {
	if settings == nil {
		defaults := DefaultSettings()
		settings = &defaults
	}
	s := &Server{
		settings: settings,
		r:        httprouter.New(),
	}

	var err error
	s.st, err = DialStorage(settings)
	if err != nil {
		return nil, err
	}

	s.middle = interpose.New()
	s.middle.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			start := time.Now()
			scrw := NewStatusCodeResponseWriter(rw)
			next.ServeHTTP(scrw, req)
			duration := time.Since(start)
			fields := log.Fields{
				req.Method:    req.URL.String(),
				"duration":    duration.String(),
				"from":        req.RemoteAddr,
				"host":        req.Host,
				"status-code": scrw.statusCode,
				"user-agent":  req.UserAgent(),
			}
			proxyHeaders := []string{
				"x-forwarded-for",
				"x-forwarded-host",
				"x-forwarded-server",
			}
			for _, ph := range proxyHeaders {
				if v := req.Header.Get(ph); v != "" {
					fields[ph] = v
				}
			}
			log.WithFields(fields).Info()
			recordHTTPRequestDuration(req.Method, scrw.statusCode, duration)
		})
	})
	s.middle.UseHandler(s.r)

	s.metricsListener = metrics.NewMetrics(&settings.Metrics)

	h, err := api.NewHandler(s.st,
		api.CacheSize(settings.Cache.Size),
		api.OpFunc(recordOperation),
	)
	if err != nil {
		s.st.Close()
		return nil, errors.WithStack(err)
	}
	h.Register(s.r)

	registerMetrics()
	s.st.Subscribe(metricsStorageNotifier)
	s.st.Subscribe(logStorageNotifier)

	return s, nil
}

func DialStorage(settings *Settings) (storage.Storage, error) {
	switch settings.Storage.Driver {
	case "leveldb":
		return leveldb.Open(settings.Storage.DSN)
	case "postgres":
		return pg.Dial(settings.Storage.DSN)
	}
	return nil, errors.Errorf("storage driver %q not supported", settings.Storage.Driver)
}

func logStorageNotifier(pc storage.PolyChange) error {
	if _, ok := pc.(storage.PolyNotChanged); ok {
		log.Debug(pc)
		return nil
	}
	log.Info(pc)
	return nil
}

// Handler returns the server's HTTP handler, including its logging and
// instrumentation middleware.
func (s *Server) Handler() http.Handler {
	return s.middle
}

// Addr returns the address the HTTP API is listening on, once started.
func (s *Server) Addr() string {
	return s.httpAddr
}

func (s *Server) Start() error {
	s.openLog()

	ln, err := s.newListener(s.settings.HTTP.Bind)
	if err != nil {
		return errors.WithStack(err)
	}
	s.ln = ln
	s.httpAddr = ln.Addr().String()
	s.t.Go(s.serveHTTP)

	if err := s.metricsListener.Start(); err != nil {
		log.Errorf("metrics disabled: %v", err)
	} else {
		s.metricsStarted = true
	}

	log.Infof("%s %s listening on %s", s.settings.Software, s.settings.Version, s.httpAddr)
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func (s *Server) openLog() {
	defer func() {
		level, err := log.ParseLevel(strings.ToLower(s.settings.LogLevel))
		if err != nil {
			log.Warningf("invalid LogLevel=%q: %v", s.settings.LogLevel, err)
			return
		}
		log.SetLevel(level)
	}()

	s.logWriter = nopCloser{os.Stderr}
	if s.settings.LogFile != "" {
		f, err := os.OpenFile(s.settings.LogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			log.Errorf("failed to open LogFile=%q: %v", s.settings.LogFile, err)
		} else {
			s.logWriter = f
		}
	}
	log.SetOutput(s.logWriter)
	log.Debug("log opened")
}

func (s *Server) closeLog() {
	log.SetOutput(os.Stderr)
	if s.logWriter != nil {
		s.logWriter.Close()
	}
}

func (s *Server) LogRotate() {
	w := s.logWriter
	s.openLog()
	if w != nil {
		w.Close()
	}
}

func (s *Server) Wait() error {
	return s.t.Wait()
}

func (s *Server) Stop() {
	defer s.closeLog()

	if s.metricsStarted {
		s.metricsListener.Stop()
	}
	if s.ln != nil {
		s.t.Kill(nil)
		s.t.Wait()
	}
	if err := s.st.Close(); err != nil {
		log.Errorf("failed to close storage: %v", err)
	}
}

// tcpKeepAliveListener sets TCP keep-alive timeouts on accepted
// connections, so dead TCP connections eventually go away.
type tcpKeepAliveListener struct {
	*net.TCPListener
}

// Accept implements net.Listener.
func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)
	return tc, nil
}

func (s *Server) newListener(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	s.t.Go(func() error {
		<-s.t.Dying()
		return ln.Close()
	})
	return tcpKeepAliveListener{ln.(*net.TCPListener)}, nil
}

func (s *Server) serveHTTP() error {
	err := http.Serve(s.ln, s.middle)
	select {
	case <-s.t.Dying():
		return nil
	default:
	}
	return errors.WithStack(err)
}
