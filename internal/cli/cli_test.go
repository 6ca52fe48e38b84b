package cli

import (
	"bytes"
	"crypto/rand"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paymo-xmr/vtdlog/pkg/keys"
	"github.com/paymo-xmr/vtdlog/pkg/math/curve"
)

func setupEnv(t *testing.T) {
	color.NoColor = true
	t.Setenv("VTDLOG_COMMITMENT__SHARES", "5")
	t.Setenv("VTDLOG_COMMITMENT__THRESHOLD", "3")
	t.Setenv("VTDLOG_COMMITMENT__HARDNESS", "10")
	t.Setenv("VTDLOG_COMMITMENT__MODULUS_BITS", "320")
	t.Setenv("VTDLOG_LOG__LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommitSolve(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "c.vtd")

	for _, group := range []curve.Curve{curve.Edwards25519{}, curve.Secp256k1{}} {
		t.Run(group.Name(), func(t *testing.T) {
			t.Setenv("VTDLOG_COMMITMENT__CURVE", group.Name())
			kp := keys.GenerateKeyPair(rand.Reader, group)
			secret, err := keys.EncodeScalar(kp.Secret)
			require.NoError(t, err)
			public, err := keys.EncodePoint(kp.Public)
			require.NoError(t, err)

			out, err := run(t, "commit", "--secret", secret, "--out", path)
			require.NoError(t, err)
			assert.Contains(t, out, public)
			assert.NotContains(t, out, secret)

			out, err = run(t, "inspect", path)
			require.NoError(t, err)
			assert.Contains(t, out, group.Name())
			assert.Contains(t, out, public)

			out, err = run(t, "solve", path)
			require.NoError(t, err)
			assert.Contains(t, out, secret)

			// the file is not consumed by solving
			out, err = run(t, "solve", "--parallel", "--workers", "2", path)
			require.NoError(t, err)
			assert.Contains(t, out, secret)
		})
	}
}

func TestCommit_GeneratedKey(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "c.vtd")

	out, err := run(t, "commit", "--hardness", "5", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Public key")

	out, err = run(t, "inspect", path)
	require.NoError(t, err)
	assert.Regexp(t, `Hardness:\s+5\n`, out)
}

func TestCommit_Errors(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "c.vtd")

	_, err := run(t, "commit", "--secret", "zz", "--out", path)
	assert.ErrorIs(t, err, keys.ErrInvalidScalar)

	_, err = run(t, "commit", "--hardness", "0", "--out", path)
	assert.Error(t, err)

	t.Setenv("VTDLOG_COMMITMENT__THRESHOLD", "9")
	_, err = run(t, "commit", "--out", path)
	assert.Error(t, err)
}

func TestSolve_MissingFile(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "solve", filepath.Join(t.TempDir(), "missing.vtd"))
	assert.Error(t, err)
	_, err = run(t, "solve")
	assert.Error(t, err)
}

func TestPuzzle(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "puzzle", "--message", "paymo!", "--hardness", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "paymo!")

	_, err = run(t, "puzzle")
	assert.Error(t, err)
}
