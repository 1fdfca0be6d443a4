package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "warn", false)

	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Str("path", "/rkns").Msg("shown")
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/rkns", line["path"])
	assert.Equal(t, "shown", line["message"])
}

func TestNewLoggerFallbackLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "bogus", false)
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerPretty(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "debug", true)
	l.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "logx_test.go")
}

func TestShortCaller(t *testing.T) {
	got := shortCaller(0, "/a/b/c/file.go", 12)
	assert.Equal(t, 28, len(got))
	assert.Contains(t, got, "file.go:12")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error().Msg("nothing")
}
