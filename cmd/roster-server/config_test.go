package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/tree/accumulator"
)

const validConfig = `
addr: localhost:8080
metrics-addr: localhost:8081
database: ./roster.db
api:
  home: https://example.com/
  suite: roster-sha256-p256
  commit-interval: 30s
  bounds:
    min: 0
    max: 100
`

func TestReadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(validConfig), 0o600))

	config, err := ReadConfig(filename)
	require.NoError(t, err)
	require.Equal(t, "localhost:8080", config.ServerAddr)
	require.Equal(t, "./roster.db", config.DatabaseFile)
	require.Nil(t, config.tlsConfig)
	require.Equal(t, suites.RosterSha256P256{}, config.APIConfig.suite)
	require.Equal(t, 30*time.Second, config.APIConfig.commitInterval)
	require.Equal(t, accumulator.Bounds{Min: 0, Max: 100}, config.APIConfig.bounds)
}

func TestParseConfigErrors(t *testing.T) {
	testCases := []struct {
		name string
		from string
		to   string
	}{
		{"missing addr", "addr: localhost:8080\n", ""},
		{"missing min", "    min: 0\n", ""},
		{"unknown field", "database: ./roster.db\n", "databse: ./roster.db\n"},
		{"unknown suite", "roster-sha256-p256", "roster-sha512-p521"},
		{"bad interval", "30s", "thirty seconds"},
		{"zero interval", "30s", "0s"},
		{"empty bounds", "min: 0", "min: 200"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := strings.Replace(validConfig, tc.from, tc.to, 1)
			require.NotEqual(t, validConfig, raw)
			_, err := parseConfig([]byte(raw))
			require.Error(t, err)
		})
	}
}
