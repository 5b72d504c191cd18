// Package config loads server settings from environment variables,
// command-line flags and an optional TOML file.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"plankamcp/server/internal/observability"
)

// Transport modes.
const (
	ModeStdio = "stdio"
	ModeHTTP  = "http"
)

// Config is the resolved server configuration.
type Config struct {
	Planka   PlankaConfig
	Mode     string
	HTTPPort int
	LogLevel string
	Loki     observability.LokiConfig
}

// PlankaConfig holds the remote service connection settings.
type PlankaConfig struct {
	// BaseURL is empty when not configured; the client applies its default.
	BaseURL       string
	Email         string
	Password      string
	AllowInsecure bool
	Timeout       time.Duration
}

// HTTPAddr is the listen address for the HTTP probe.
func (c *Config) HTTPAddr() string {
	return ":" + strconv.Itoa(c.HTTPPort)
}

var envBindings = map[string]string{
	"planka.base_url":       "PLANKA_BASE_URL",
	"planka.email":          "PLANKA_AGENT_EMAIL",
	"planka.password":       "PLANKA_AGENT_PASSWORD",
	"planka.allow_insecure": "PLANKA_ALLOW_INSECURE",
	"planka.timeout":        "PLANKA_HTTP_TIMEOUT",
	"server.type":           "MCP_SERVER_TYPE",
	"server.http_port":      "MCP_HTTP_PORT",
	"log.level":             "LOG_LEVEL",
	"loki.url":              "GRAFANA_LOKI_URL",
	"loki.user":             "GRAFANA_LOKI_USER",
	"loki.api_key":          "GRAFANA_LOKI_API_KEY",
	"app.env":               "APP_ENV",
	"app.instance":          "INSTANCE_ID",
}

var flagBindings = map[string]string{
	"planka.base_url":       "base-url",
	"planka.allow_insecure": "allow-insecure",
	"server.type":           "mode",
	"server.http_port":      "port",
	"log.level":             "log-level",
}

// ErrHelp is returned by Load when --help was requested.
var ErrHelp = pflag.ErrHelp

// NewFlagSet declares the command-line flags understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a TOML config file")
	fs.String("base-url", "", "Planka base URL (default http://localhost:3000)")
	fs.Bool("allow-insecure", false, "skip TLS certificate verification for Planka")
	fs.String("mode", ModeStdio, "transport: stdio or http")
	fs.Int("port", 3000, "HTTP port when --mode=http")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	return fs
}

// Load parses args and resolves every setting. Flags override environment
// variables, which override the config file.
func Load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	fs := NewFlagSet("planka-mcp-server")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("planka.timeout", "30s")
	v.SetDefault("server.type", ModeStdio)
	v.SetDefault("server.http_port", 3000)
	v.SetDefault("log.level", "info")
	v.SetDefault("app.env", "planka-mcp")
	v.SetDefault("app.instance", "local")

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	// Environment values are injected explicitly so tests can supply
	// their own lookup.
	for key, env := range envBindings {
		if val, ok := lookupEnv(env); ok && val != "" {
			v.Set(key, val)
		}
	}
	for key, name := range flagBindings {
		if f := fs.Lookup(name); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	timeout := v.GetDuration("planka.timeout")
	if timeout <= 0 {
		return nil, errors.Errorf("invalid planka.timeout %q", v.GetString("planka.timeout"))
	}
	port := v.GetInt("server.http_port")
	if port <= 0 || port > 65535 {
		return nil, errors.Errorf("invalid server.http_port %q", v.GetString("server.http_port"))
	}

	mode := strings.ToLower(strings.TrimSpace(v.GetString("server.type")))
	if mode != ModeHTTP {
		mode = ModeStdio
	}

	return &Config{
		Planka: PlankaConfig{
			BaseURL:       v.GetString("planka.base_url"),
			Email:         v.GetString("planka.email"),
			Password:      v.GetString("planka.password"),
			AllowInsecure: v.GetBool("planka.allow_insecure"),
			Timeout:       timeout,
		},
		Mode:     mode,
		HTTPPort: port,
		LogLevel: v.GetString("log.level"),
		Loki: observability.LokiConfig{
			URL:      v.GetString("loki.url"),
			User:     v.GetString("loki.user"),
			APIKey:   v.GetString("loki.api_key"),
			App:      v.GetString("app.env"),
			Instance: v.GetString("app.instance"),
		},
	}, nil
}

// LogSummary reports the Planka connection settings, warning about anything
// missing. The password is never logged.
func (c *Config) LogSummary(logger *zap.Logger) {
	if c.Planka.BaseURL == "" {
		logger.Warn("PLANKA_BASE_URL environment variable not set")
	} else {
		logger.Info("Planka base URL", zap.String("PLANKA_BASE_URL", c.Planka.BaseURL))
	}
	if c.Planka.Email == "" {
		logger.Warn("PLANKA_AGENT_EMAIL environment variable not set")
	} else {
		logger.Info("Planka agent email", zap.String("PLANKA_AGENT_EMAIL", c.Planka.Email))
	}
	if c.Planka.Password == "" {
		logger.Warn("PLANKA_AGENT_PASSWORD environment variable not set")
	} else {
		logger.Info("Planka agent password", zap.String("PLANKA_AGENT_PASSWORD", "***"))
	}
}
