// Package config provides the configuration system for colstorm.
//
// Settings come from three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← COLSTORM_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← colstorm.toml / colstorm.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller on top of the result.
//
// # File Formats
//
// Files ending in .toml are parsed with go-toml, files ending in .yaml or
// .yml with yaml.v3. Unknown keys are rejected. A missing file is not an
// error; the defaults are used.
//
//	[column]
//	delimiter = ","
//	quote = '"'
//	columns = "1,3"
//
//	[highlight]
//	colors = ["darkblue", "darkgreen"]
//
//	[logging]
//	level = "info"
//
// # Live Reload
//
// Watcher observes the settings file and calls a handler with freshly
// loaded settings after changes settle.
//
//	w, err := config.NewWatcher(loader, func(s config.Settings, err error) {
//	    // re-apply column mode
//	})
//	defer w.Close()
package config
