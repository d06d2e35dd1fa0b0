package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/colstorm/internal/engine/column"
)

// Settings is the complete colstorm configuration.
type Settings struct {
	Column    ColumnSettings    `toml:"column" yaml:"column"`
	Highlight HighlightSettings `toml:"highlight" yaml:"highlight"`
	Logging   LoggingSettings   `toml:"logging" yaml:"logging"`
}

// ColumnSettings is the raw column mode input.
type ColumnSettings struct {
	Delimiter string `toml:"delimiter" yaml:"delimiter"`
	Quote     string `toml:"quote" yaml:"quote"`
	Columns   string `toml:"columns" yaml:"columns"`
}

// HighlightSettings configures column highlighting.
type HighlightSettings struct {
	// Colors are tcell color names or #rrggbb values, cycled per column.
	Colors []string `toml:"colors" yaml:"colors"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level string `toml:"level" yaml:"level"`
}

// LogLevels lists the accepted logging levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Column: ColumnSettings{
			Delimiter: ",",
			Quote:     `"`,
			Columns:   "1",
		},
		Highlight: HighlightSettings{
			Colors: []string{"darkblue", "darkgreen", "darkcyan", "maroon"},
		},
		Logging: LoggingSettings{
			Level: "info",
		},
	}
}

// ColumnInput converts the column settings into engine input.
func (s Settings) ColumnInput() column.Input {
	return column.Input{
		Delimiter: s.Column.Delimiter,
		Quote:     s.Column.Quote,
		Columns:   s.Column.Columns,
	}
}

// Validate checks the column settings and the logging level.
func (s Settings) Validate() error {
	if _, err := column.Parse(s.ColumnInput()); err != nil {
		return fmt.Errorf("column settings: %w", err)
	}
	if !slices.Contains(LogLevels, strings.ToLower(s.Logging.Level)) {
		return fmt.Errorf("%w: %q (valid: %s)", ErrInvalidLogLevel, s.Logging.Level, strings.Join(LogLevels, ", "))
	}
	return nil
}
