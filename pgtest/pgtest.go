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

// Package pgtest runs a throwaway postgres server for gocheck suites that
// exercise the PostgreSQL polynomial store.
package pgtest

import (
	"bytes"
	"database/sql"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"text/template"
	"time"

	_ "github.com/lib/pq"
	gc "gopkg.in/check.v1"
)

var conf = template.Must(template.New("t").Parse(`
fsync = off
listen_addresses = ''
unix_socket_directories = '{{.}}'
`))

var (
	postgres   string
	initdbDir  string
	initdbErr  error
	initdbOnce sync.Once
)

// PGSuite starts postgres in a temporary directory before each test and
// stops it afterwards. Embed it in a suite and call its SetUpTest and
// TearDownTest from the suite's own.
type PGSuite struct {
	URL string // Connection URL for sql.Open.
	Dir string

	cmd *exec.Cmd
}

// SetUpTest copies a template cluster produced by initdb into a fresh
// directory and starts postgres on a unix socket there. The test is skipped
// if no postgres installation is found.
func (s *PGSuite) SetUpTest(c *gc.C) {
	initdbOnce.Do(initdb)
	if initdbErr != nil {
		c.Skip("postgres not available: " + initdbErr.Error())
	}
	s.Dir = c.MkDir()
	err := exec.Command("cp", "-a", initdbDir+"/.", s.Dir).Run()
	c.Assert(err, gc.IsNil)

	f, err := os.OpenFile(filepath.Join(s.Dir, "postgresql.conf"), os.O_APPEND|os.O_WRONLY, 0666)
	c.Assert(err, gc.IsNil)
	err = conf.Execute(f, s.Dir)
	c.Assert(err, gc.IsNil)
	c.Assert(f.Close(), gc.IsNil)

	s.URL = "host=" + s.Dir + " dbname=postgres sslmode=disable"
	s.cmd = exec.Command(postgres, "-D", s.Dir)
	err = s.cmd.Start()
	c.Assert(err, gc.IsNil, gc.Commentf("starting postgres"))

	c.Log("starting postgres in", s.Dir)
	sock := filepath.Join(s.Dir, ".s.PGSQL.5432")
	for n := 0; n < 40; n++ {
		if _, err := os.Stat(sock); err == nil {
			if db, err := sql.Open("postgres", s.URL); err == nil {
				_, err = db.Exec("SELECT 1")
				db.Close()
				if err == nil {
					return
				}
				c.Logf("database connection failed, not ready: %v", err)
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	c.Fatal("timeout waiting for postgres to start")
}

// TearDownTest stops the running postgres process. The data directory is
// removed by gocheck along with the rest of c.MkDir.
func (s *PGSuite) TearDownTest(c *gc.C) {
	if s.cmd == nil {
		return
	}
	err := s.cmd.Process.Signal(os.Interrupt)
	c.Assert(err, gc.IsNil)
	err = s.cmd.Wait()
	c.Assert(err, gc.IsNil)
	s.cmd = nil
}

func initdb() {
	out, err := exec.Command("pg_config", "--bindir").Output()
	if err != nil {
		initdbErr = err
		return
	}
	bindir := string(bytes.TrimSpace(out))
	postgres = filepath.Join(bindir, "postgres")

	initdbDir, err = os.MkdirTemp("", "pgtest-template")
	if err != nil {
		initdbErr = err
		return
	}
	if err := exec.Command(filepath.Join(bindir, "initdb"), "-D", initdbDir).Run(); err != nil {
		os.RemoveAll(initdbDir)
		initdbErr = err
	}
}
