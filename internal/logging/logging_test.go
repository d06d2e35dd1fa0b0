package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		lvl, err := ParseLevel(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, lvl, tt.name)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNewFiltersByLevel(t *testing.T) {
	var out bytes.Buffer
	log, err := New("warn", &out)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Int("lines", 3).Msg("shown")

	line := out.String()
	assert.NotContains(t, line, "hidden")
	assert.Equal(t, "warn", gjson.Get(line, "level").String())
	assert.Equal(t, int64(3), gjson.Get(line, "lines").Int())
	assert.Equal(t, "shown", gjson.Get(line, "message").String())
	assert.True(t, gjson.Get(line, "time").Exists())
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("loud", &bytes.Buffer{})
	assert.Error(t, err)
}
