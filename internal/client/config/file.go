package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts either a Go duration string ("10s") or an integer number
// of nanoseconds in JSON and YAML config files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var v any
	if err := n.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch x := v.(type) {
	case float64:
		d.Duration = time.Duration(x)
	case int:
		d.Duration = time.Duration(x)
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return errors.New("invalid duration")
	}
	return nil
}

// fileConfig is the on-disk shape. Zero values leave the current setting
// untouched.
type fileConfig struct {
	APIBaseURL     string   `json:"api_base_url" yaml:"api_base_url"`
	StoragePath    string   `json:"storage_path" yaml:"storage_path"`
	RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	EditBudget     Duration `json:"edit_budget" yaml:"edit_budget"`
	LockWindow     Duration `json:"lock_window" yaml:"lock_window"`
	LogFile        string   `json:"log_file" yaml:"log_file"`
	LogLevel       string   `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file at path. An empty path is a no-op.
func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.StoragePath != "" {
		cfg.StoragePath = fc.StoragePath
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.EditBudget.Duration > 0 {
		cfg.EditBudget = fc.EditBudget.Duration
	}
	if fc.LockWindow.Duration > 0 {
		cfg.LockWindow = fc.LockWindow.Duration
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	return nil
}
