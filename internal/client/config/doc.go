// Package config loads runtime configuration for the Wikied CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, everything else as JSON.
//  3. Environment: NEXT_PUBLIC_API_URL (API base), WIKIED_LOG_LEVEL.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   API base URL
//	-s string   path of the local SQLite store
//	-t int      request timeout (seconds)
//	-log string log file path
//	-log-level  debug|info|warn|error
//
// # File schema
//
// Durations may be strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://wikied-api.example.com/6-1",
//	  "storage_path": "wikied.db",
//	  "request_timeout": "10s",
//	  "edit_budget": "5m",
//	  "lock_window": "5m",
//	  "log_file": "wikied.log",
//	  "log_level": "info"
//	}
package config
