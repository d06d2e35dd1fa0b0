package engine

import (
	"github.com/rs/zerolog"

	"github.com/dshills/colstorm/internal/engine/column"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLogger sets the logger used for rescans, resyncs and sort transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithConfig applies an already parsed column configuration at creation.
// The index is fully scanned before New returns.
func WithConfig(cfg *column.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}
