package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader reads Settings from a file and the environment.
type Loader struct {
	fs     FileSystem
	path   string
	lookup LookupFunc
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS sets the file system the settings file is read from.
func WithFS(fsys FileSystem) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithLookup sets the environment lookup function. A nil function
// disables environment overrides.
func WithLookup(lookup LookupFunc) LoaderOption {
	return func(l *Loader) {
		l.lookup = lookup
	}
}

// NewLoader creates a loader for the settings file at path. An empty path
// loads defaults and environment overrides only.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:     OSFS{},
		path:   path,
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the settings file path.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the defaults overridden by the settings file and then by
// the environment. The result is validated.
func (l *Loader) Load() (Settings, error) {
	s := Default()

	if l.path != "" {
		data, err := l.fs.ReadFile(l.path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Missing file, defaults apply.
		case err != nil:
			return Settings{}, fmt.Errorf("reading config file %s: %w", l.path, err)
		default:
			if err := decode(l.path, data, &s); err != nil {
				return Settings{}, err
			}
		}
	}

	if l.lookup != nil {
		ApplyEnv(&s, l.lookup)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// decode parses data into s according to the file extension of path.
// Keys absent from the file keep their current value.
func decode(path string, data []byte, s *Settings) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			perr := &ParseError{Path: path, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, perr.Column = derr.Position()
			}
			return perr
		}

	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
			return &ParseError{Path: path, Message: err.Error(), Err: err}
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return nil
}
