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
	"github.com/BurntSushi/toml"
	"gopkg.in/errgo.v1"

	"sparsepoly/api"
	"sparsepoly/metrics"
)

const (
	DefaultHTTPBind = ":8580"
)

type HTTPConfig struct {
	Bind string `toml:"bind"`
}

const (
	DefaultStorageDriver = "leveldb"
	DefaultStorageDSN    = "polyd.db"
)

type StorageConfig struct {
	// Driver is "leveldb" or "postgres".
	Driver string `toml:"driver"`
	// DSN is a directory path for leveldb, a connection URL for postgres.
	DSN string `toml:"dsn"`
}

type CacheConfig struct {
	Size int `toml:"size"`
}

type Settings struct {
	HTTP    HTTPConfig    `toml:"http"`
	Storage StorageConfig `toml:"storage"`
	Cache   CacheConfig   `toml:"cache"`

	Metrics metrics.Settings `toml:"metrics"`

	LogFile  string `toml:"logfile"`
	LogLevel string `toml:"loglevel"`

	Software string `toml:"software"`
	Version  string `toml:"version"`
}

const (
	DefaultLogLevel = "INFO"
)

func DefaultSettings() Settings {
	return Settings{
		HTTP: HTTPConfig{
			Bind: DefaultHTTPBind,
		},
		Storage: StorageConfig{
			Driver: DefaultStorageDriver,
			DSN:    DefaultStorageDSN,
		},
		Cache: CacheConfig{
			Size: api.DefaultCacheSize,
		},
		Metrics:  *metrics.DefaultSettings(),
		LogLevel: DefaultLogLevel,
		Software: "polyd",
		Version:  "~unreleased",
	}
}

var errInvalidSettings = errgo.New("invalid settings")

// Resolve checks settings that cannot be validated by decoding alone.
func (s *Settings) Resolve() error {
	switch s.Storage.Driver {
	case "leveldb", "postgres":
	default:
		return errgo.WithCausef(nil, errInvalidSettings, "storage driver %q not supported", s.Storage.Driver)
	}
	if s.Storage.DSN == "" {
		return errgo.WithCausef(nil, errInvalidSettings, "storage dsn is required")
	}
	if s.Cache.Size <= 0 {
		return errgo.WithCausef(nil, errInvalidSettings, "invalid cache size %d", s.Cache.Size)
	}
	if s.HTTP.Bind == "" {
		return errgo.WithCausef(nil, errInvalidSettings, "http bind address is required")
	}
	return nil
}

func ParseSettings(data string) (*Settings, error) {
	var doc struct {
		Polyd Settings `toml:"polyd"`
	}
	doc.Polyd = DefaultSettings()
	_, err := toml.Decode(data, &doc)
	if err != nil {
		return nil, errgo.Mask(err)
	}

	err = doc.Polyd.Resolve()
	if err != nil {
		return nil, errgo.Mask(err, errgo.Any)
	}

	return &doc.Polyd, nil
}
