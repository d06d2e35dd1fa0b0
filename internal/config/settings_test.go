package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/colstorm/internal/engine/column"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		want   error
	}{
		{"empty delimiter", func(s *Settings) { s.Column.Delimiter = "" }, column.ErrEmptyDelimiter},
		{"bad columns", func(s *Settings) { s.Column.Columns = "0" }, column.ErrInvalidColumnList},
		{"bad level", func(s *Settings) { s.Logging.Level = "loud" }, ErrInvalidLogLevel},
		{"level case", func(s *Settings) { s.Logging.Level = "DEBUG" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(&s)
			err := s.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"COLSTORM_DELIMITER": "|",
		"COLSTORM_HIGHLIGHT": "red, ,blue",
		"COLSTORM_UNRELATED": "x",
	}
	s := Default()
	ApplyEnv(&s, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	assert.Equal(t, "|", s.Column.Delimiter)
	assert.Equal(t, []string{"red", "blue"}, s.Highlight.Colors)
	assert.Equal(t, "1", s.Column.Columns, "columns keep their default")
}

func TestEnvVars(t *testing.T) {
	assert.Subset(t, EnvVars(), []string{
		"COLSTORM_DELIMITER", "COLSTORM_QUOTE", "COLSTORM_COLUMNS", "COLSTORM_LOG_LEVEL", "COLSTORM_HIGHLIGHT",
	})
}
