// Copyright 2025 Marc Jourdan <mjourdan@fastmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netsta_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mjourdan/netsta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_config_defaults(t *testing.T) {
	cfg := netsta.DefaultConfig()
	assert.Equal(t, 2.0, cfg.ClockPeriod)
	assert.Equal(t, 0.05, cfg.Setup)
	assert.Equal(t, 0.08, cfg.ClockToQ)
	assert.Equal(t, 1, cfg.MaxPaths)
	require.NoError(t, cfg.Validate())
}

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "constraints.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func Test_config_loadYAML(t *testing.T) {
	cfg, err := netsta.LoadConfig(writeConfig(t, `
clock_period: 1.5
clock_to_q: 0.2
max_paths: 3
violations_only: true
delays:
  AND: 0.1
startpoint_at:
  a: 0.25
`))
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.ClockPeriod)
	assert.Equal(t, 0.2, cfg.ClockToQ)
	assert.Equal(t, 3, cfg.MaxPaths)
	assert.True(t, cfg.ViolationsOnly)
	assert.Equal(t, 0.1, cfg.Delays["AND"])
	assert.Equal(t, 0.25, cfg.StartpointAT["a"])
	// keys the file leaves out keep their defaults
	assert.Equal(t, 0.05, cfg.Setup)
}

func Test_config_validation(t *testing.T) {
	cfg := netsta.DefaultConfig()
	cfg.Setup = -0.1
	assert.Error(t, cfg.Validate())

	cfg = netsta.DefaultConfig()
	cfg.MaxPaths = -1
	assert.Error(t, cfg.Validate())

	cfg = netsta.DefaultConfig()
	cfg.Delays = map[string]float64{"FOO": 0.1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOO")
}

func Test_config_unknownTagInFile(t *testing.T) {
	_, err := netsta.LoadConfig(writeConfig(t, "delays:\n  FROB: 0.5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FROB")
}

func Test_config_missingFile(t *testing.T) {
	_, err := netsta.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
