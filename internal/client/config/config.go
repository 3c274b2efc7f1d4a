package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/wikied/internal/common"
	"github.com/dmitrijs2005/wikied/internal/flagx"
)

// Config holds runtime settings for the Wikied CLI.
type Config struct {
	APIBaseURL     string
	StoragePath    string
	RequestTimeout time.Duration
	// EditBudget is the fixed lifetime of an edit session.
	EditBudget time.Duration
	// LockWindow is how long the server keeps a wiki locked for one editor.
	LockWindow time.Duration
	LogFile    string
	LogLevel   string
}

var ErrMissingAPIBaseURL = errors.New("api base url is not configured")

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.StoragePath = "wikied.db"
	c.RequestTimeout = 10 * time.Second
	c.EditBudget = 300 * time.Second
	c.LockWindow = 5 * time.Minute
	c.LogFile = "wikied.log"
	c.LogLevel = "info"
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return ErrMissingAPIBaseURL
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.EditBudget <= 0 {
		return errors.New("edit budget must be positive")
	}
	return nil
}

// Load builds a Config from defaults, the config file named in args, the
// environment (via getenv) and finally the flags in args.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, flagx.ConfigFileFlag(args)); err != nil {
		return nil, err
	}
	parseEnv(cfg, getenv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.Getenv)
}

func parseEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	if v := getenv(common.APIBaseURLEnv); v != "" {
		cfg.APIBaseURL = v
	}
	if v := getenv("WIKIED_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
