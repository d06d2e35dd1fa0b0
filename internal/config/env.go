package config

import "strings"

// EnvPrefix is the prefix of every colstorm environment variable.
const EnvPrefix = "COLSTORM_"

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envMapping maps environment variables to the setting they override.
var envMapping = map[string]func(*Settings, string){
	EnvPrefix + "DELIMITER": func(s *Settings, v string) { s.Column.Delimiter = v },
	EnvPrefix + "QUOTE":     func(s *Settings, v string) { s.Column.Quote = v },
	EnvPrefix + "COLUMNS":   func(s *Settings, v string) { s.Column.Columns = v },
	EnvPrefix + "LOG_LEVEL": func(s *Settings, v string) { s.Logging.Level = strings.ToLower(v) },
	EnvPrefix + "HIGHLIGHT": func(s *Settings, v string) { s.Highlight.Colors = splitList(v) },
}

// EnvVars returns the recognized environment variable names.
func EnvVars() []string {
	names := make([]string, 0, len(envMapping))
	for name := range envMapping {
		names = append(names, name)
	}
	return names
}

// ApplyEnv overrides s with every recognized variable lookup finds.
// An empty value is a valid value, not an unset variable; an empty quote
// disables quoting.
func ApplyEnv(s *Settings, lookup LookupFunc) {
	for name, set := range envMapping {
		if v, ok := lookup(name); ok {
			set(s, v)
		}
	}
}

// splitList splits a comma separated list, dropping empty elements.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
