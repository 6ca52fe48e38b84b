package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paymo-xmr/vtdlog/internal/params"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestInitConfig_Defaults(t *testing.T) {
	cfg, err := InitConfig("")
	require.NoError(t, err)

	require.NotNil(t, cfg.Commitment)
	assert.Equal(t, params.Shares, cfg.Commitment.Shares)
	assert.Equal(t, params.Threshold, cfg.Commitment.Threshold)
	assert.Equal(t, params.BitsTimeLockModulus, cfg.Commitment.ModulusBits)
	group, err := cfg.Commitment.Group()
	require.NoError(t, err)
	assert.Equal(t, curve.Edwards25519{}, group)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Solver.Parallel)
}

func TestInitConfig_File(t *testing.T) {
	path := writeConfig(t, `
commitment:
  curve: secp256k1
  shares: 8
  threshold: 3
  hardness: 500
solver:
  parallel: true
  workers: 2
log:
  level: debug
  format: json
`)
	cfg, err := InitConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "secp256k1", cfg.Commitment.Curve)
	assert.EqualValues(t, 500, cfg.Commitment.Hardness)
	p := cfg.Commitment.Parameters()
	assert.Equal(t, 8, p.Shares)
	assert.Equal(t, 3, p.Threshold)
	// not in the file, so the default remains
	assert.Equal(t, params.BitsTimeLockModulus, p.ModulusBits)
	assert.True(t, cfg.Solver.Parallel)
	assert.Equal(t, 2, cfg.Solver.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitConfig_Env(t *testing.T) {
	path := writeConfig(t, "commitment:\n  hardness: 500\n")
	t.Setenv("VTDLOG_COMMITMENT__HARDNESS", "42")
	t.Setenv("VTDLOG_LOG__LEVEL", "warn")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.EqualValues(t, 42, cfg.Commitment.Hardness)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitConfig_Invalid(t *testing.T) {
	for name, content := range map[string]string{
		"threshold":         "commitment:\n  threshold: 30\n",
		"curve":             "commitment:\n  curve: p256\n",
		"hardness":          "commitment:\n  hardness: 0\n",
		"modulus":           "commitment:\n  modulus_bits: 16\n",
		"workers":           "solver:\n  workers: -1\n",
		"small modulus":     "commitment:\n  curve: edwards25519\n  modulus_bits: 128\n",
		"secp256k1 modulus": "commitment:\n  curve: secp256k1\n  modulus_bits: 256\n",
		"log":               "log:\n  format: logfmt\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := InitConfig(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := InitConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
