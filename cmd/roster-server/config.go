package main

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/tree/accumulator"

	"gopkg.in/yaml.v2"
)

// Config specifies the file format of config files.
type Config struct {
	ServerAddr  string     `yaml:"addr"`
	MetricsAddr string     `yaml:"metrics-addr"`
	TLSConfig   *TLSConfig `yaml:"tls"`
	tlsConfig   *tls.Config

	// DatabaseFile is the location of the LevelDB database. If empty, the
	// database is kept in memory and lost on restart.
	DatabaseFile string `yaml:"database"`

	APIConfig *APIConfig `yaml:"api"`
}

// TLSConfig specifies the API server's TLS config. Since this is only intended
// for use with Cloudflare OriginCA, TLS on the server also starts requiring a
// valid client certificate.
type TLSConfig struct {
	Cert     string `yaml:"cert"`
	Key      string `yaml:"key"`
	ClientCA string `yaml:"client-ca"` // CA for validating client certificates.
}

type APIConfig struct {
	HomeRedirect string `yaml:"home"`

	Suite string `yaml:"suite"` // Name of the cipher suite, like roster-sha256-ed25519.
	suite suites.CipherSuite

	CommitInterval string `yaml:"commit-interval"` // How often pending admissions are committed.
	commitInterval time.Duration

	Bounds *BoundsConfig `yaml:"bounds"`
	bounds accumulator.Bounds
}

// BoundsConfig is the inclusive range of attributes that are eligible for
// admission.
type BoundsConfig struct {
	Min *uint64 `yaml:"min"`
	Max *uint64 `yaml:"max"`
}

func ReadConfig(filename string) (*Config, error) {
	// Read from file and parse.
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseConfig(raw)
}

func parseConfig(raw []byte) (*Config, error) {
	var parsed Config
	if err := yaml.UnmarshalStrict(raw, &parsed); err != nil {
		return nil, err
	}

	// Check that all required fields are populated.
	if parsed.ServerAddr == "" {
		return nil, fmt.Errorf("field not provided: addr")
	} else if parsed.MetricsAddr == "" {
		return nil, fmt.Errorf("field not provided: metrics-addr")
	} else if parsed.APIConfig == nil {
		return nil, fmt.Errorf("field not provided: api")
	} else if parsed.APIConfig.HomeRedirect == "" {
		return nil, fmt.Errorf("field not provided: api.home")
	} else if parsed.APIConfig.Suite == "" {
		return nil, fmt.Errorf("field not provided: api.suite")
	} else if parsed.APIConfig.CommitInterval == "" {
		return nil, fmt.Errorf("field not provided: api.commit-interval")
	} else if parsed.APIConfig.Bounds == nil {
		return nil, fmt.Errorf("field not provided: api.bounds")
	} else if parsed.APIConfig.Bounds.Min == nil {
		return nil, fmt.Errorf("field not provided: api.bounds.min")
	} else if parsed.APIConfig.Bounds.Max == nil {
		return nil, fmt.Errorf("field not provided: api.bounds.max")
	}

	// Parse TLS config if necessary.
	if parsed.TLSConfig != nil {
		cert, err := tls.LoadX509KeyPair(parsed.TLSConfig.Cert, parsed.TLSConfig.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS certificate/key: %v", err)
		}

		certPool := x509.NewCertPool()
		caCerts, err := os.ReadFile(parsed.TLSConfig.ClientCA)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS client CA: %v", err)
		} else if ok := certPool.AppendCertsFromPEM(caCerts); !ok {
			return nil, fmt.Errorf("no client CA certificates successfully parsed from file")
		}

		parsed.tlsConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			ClientAuth:   tls.RequireAndVerifyClientCert,
			ClientCAs:    certPool,
		}
	}

	// Parse the accumulator's parameters.
	var err error
	api := parsed.APIConfig
	api.suite, err = suites.FromName(api.Suite)
	if err != nil {
		return nil, err
	}
	api.commitInterval, err = time.ParseDuration(api.CommitInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to parse commit interval: %v", err)
	} else if api.commitInterval <= 0 {
		return nil, fmt.Errorf("commit interval must be positive: %v", api.commitInterval)
	}
	api.bounds = accumulator.Bounds{Min: *api.Bounds.Min, Max: *api.Bounds.Max}
	if api.bounds.Min > api.bounds.Max {
		return nil, fmt.Errorf("bounds are empty: min=%v, max=%v", api.bounds.Min, api.bounds.Max)
	}

	return &parsed, nil
}
