package log

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerJSON(t *testing.T) {
	var b bytes.Buffer
	l, err := NewLogger("log-test", &b, FmtJSON, LevelDebug)
	require.NoError(t, err)

	l.Debug().Int("share", 3).Msg("a statement")
	require.Regexp(t, regexp.MustCompile(
		`{"level":"debug","module":"log-test","share":3,"time":"[^"]+","message":"a statement"}\n`),
		b.String())
}

func TestLoggerConsole(t *testing.T) {
	var b bytes.Buffer
	l, err := NewLogger("log-test", &b, FmtConsole, LevelInfo)
	require.NoError(t, err)

	l.Info().Msg("a statement")
	assert.Contains(t, b.String(), "a statement")
	assert.Contains(t, b.String(), "log-test")
}

func TestLoggerLevel(t *testing.T) {
	var b bytes.Buffer
	l, err := NewLogger("log-test", &b, FmtJSON, LevelWarn)
	require.NoError(t, err)

	l.Info().Msg("dropped")
	assert.Empty(t, b.String())
	l.Warn().Msg("kept")
	assert.Contains(t, b.String(), "kept")
}

func TestLoggerInvalid(t *testing.T) {
	var b bytes.Buffer
	_, err := NewLogger("log-test", &b, Format(255), LevelDebug)
	require.Error(t, err)

	_, err = FromStrings("log-test", &b, "logfmt", "info")
	require.Error(t, err)
	_, err = FromStrings("log-test", &b, "json", "verbose")
	require.Error(t, err)
}

func TestFromStrings_Context(t *testing.T) {
	var b bytes.Buffer
	l, err := FromStrings("log-test", &b, "JSON", "Debug")
	require.NoError(t, err)

	ctx := l.WithContext(context.Background())
	zerolog.Ctx(ctx).Debug().Msg("through the context")
	assert.Contains(t, b.String(), "through the context")
}

func TestFormatLevelStrings(t *testing.T) {
	for _, s := range []string{"json", "console"} {
		var f Format
		require.NoError(t, f.Set(s))
		assert.Equal(t, s, f.String())
	}
	for _, s := range []string{"debug", "info", "warn", "error"} {
		var l Level
		require.NoError(t, l.Set(s))
		assert.Equal(t, s, l.String())
	}
}
