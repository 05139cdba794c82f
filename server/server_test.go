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
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	gc "gopkg.in/check.v1"
)

type ServerSuite struct {
	srv *Server
}

var _ = gc.Suite(&ServerSuite{})

func (s *ServerSuite) SetUpTest(c *gc.C) {
	settings := DefaultSettings()
	settings.HTTP.Bind = "127.0.0.1:0"
	settings.Metrics.MetricsAddr = "127.0.0.1:0"
	settings.Storage.DSN = filepath.Join(c.MkDir(), "polyd.db")
	settings.LogFile = filepath.Join(c.MkDir(), "polyd.log")

	var err error
	s.srv, err = NewServer(&settings)
	c.Assert(err, gc.IsNil)
	c.Assert(s.srv.Start(), gc.IsNil)
}

func (s *ServerSuite) TearDownTest(c *gc.C) {
	s.srv.Stop()
}

func (s *ServerSuite) do(c *gc.C, method, url, body string) (int, string) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	c.Assert(err, gc.IsNil)
	res, err := http.DefaultClient.Do(req)
	c.Assert(err, gc.IsNil)
	defer res.Body.Close()
	doc, err := io.ReadAll(res.Body)
	c.Assert(err, gc.IsNil)
	return res.StatusCode, string(doc)
}

func (s *ServerSuite) TestStoreAndEvaluate(c *gc.C) {
	base := "http://" + s.srv.Addr()

	code, _ := s.do(c, "PUT", base+"/polys/p3", "5-3x2+7x8")
	c.Assert(code, gc.Equals, http.StatusOK)

	code, doc := s.do(c, "GET", base+"/polys/p3?format=text", "")
	c.Assert(code, gc.Equals, http.StatusOK)
	c.Assert(doc, gc.Equals, "5-3x2+7x8\n")

	code, doc = s.do(c, "GET", base+"/polys/p3/eval?x=1", "")
	c.Assert(code, gc.Equals, http.StatusOK)
	c.Assert(doc, gc.Matches, `.*"value":9.*`)

	code, _ = s.do(c, "DELETE", base+"/polys/p3", "")
	c.Assert(code, gc.Equals, http.StatusOK)
	code, _ = s.do(c, "GET", base+"/polys/p3", "")
	c.Assert(code, gc.Equals, http.StatusNotFound)
}

func (s *ServerSuite) TestMetrics(c *gc.C) {
	base := "http://" + s.srv.Addr()
	code, _ := s.do(c, "POST", base+"/ops/mul", `{"operands":["1x1+1","1x1-1"]}`)
	c.Assert(code, gc.Equals, http.StatusOK)
	code, _ = s.do(c, "PUT", base+"/polys/m", "1x1")
	c.Assert(code, gc.Equals, http.StatusOK)

	code, doc := s.do(c, "GET", "http://"+s.srv.metricsListener.Addr().String()+"/metrics", "")
	c.Assert(code, gc.Equals, http.StatusOK)
	c.Assert(doc, gc.Matches, `(?s).*sparsepoly_operations_total\{op="mul"\}.*`)
	c.Assert(doc, gc.Matches, `(?s).*sparsepoly_polys_added \d+.*`)
	c.Assert(doc, gc.Matches, `(?s).*sparsepoly_http_request_duration_seconds_count\{method="PUT",status_code="200"\}.*`)
}

func (s *ServerSuite) TestStopIsPrompt(c *gc.C) {
	settings := DefaultSettings()
	settings.HTTP.Bind = "127.0.0.1:0"
	settings.Metrics.MetricsAddr = "127.0.0.1:0"
	settings.Storage.DSN = filepath.Join(c.MkDir(), "polyd.db")
	srv, err := NewServer(&settings)
	c.Assert(err, gc.IsNil)
	c.Assert(srv.Start(), gc.IsNil)

	done := make(chan struct{})
	go func() {
		srv.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		c.Fatal("timeout stopping server")
	}
	c.Assert(srv.Wait(), gc.IsNil)
}

func (s *ServerSuite) TestDialStorageUnsupported(c *gc.C) {
	settings := DefaultSettings()
	settings.Storage.Driver = "mongo"
	_, err := DialStorage(&settings)
	c.Assert(err, gc.ErrorMatches, `storage driver "mongo" not supported`)
}
