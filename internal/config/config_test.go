package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, envMap(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeStdio || cfg.HTTPPort != 3000 || cfg.LogLevel != "info" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Planka.BaseURL != "" || cfg.Planka.Timeout != 30*time.Second || cfg.Planka.AllowInsecure {
		t.Errorf("planka = %+v", cfg.Planka)
	}
	if cfg.Loki.App != "planka-mcp" || cfg.Loki.Instance != "local" {
		t.Errorf("loki = %+v", cfg.Loki)
	}
	if cfg.HTTPAddr() != ":3000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr())
	}
}

func TestLoadEnvironment(t *testing.T) {
	cfg, err := Load(nil, envMap(map[string]string{
		"PLANKA_BASE_URL":       "https://planka.example.com",
		"PLANKA_AGENT_EMAIL":    "agent@example.com",
		"PLANKA_AGENT_PASSWORD": "secret",
		"PLANKA_ALLOW_INSECURE": "true",
		"PLANKA_HTTP_TIMEOUT":   "5s",
		"MCP_SERVER_TYPE":       "http",
		"MCP_HTTP_PORT":         "8080",
		"GRAFANA_LOKI_URL":      "https://loki.example.com",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := PlankaConfig{
		BaseURL:       "https://planka.example.com",
		Email:         "agent@example.com",
		Password:      "secret",
		AllowInsecure: true,
		Timeout:       5 * time.Second,
	}
	if cfg.Planka != want {
		t.Errorf("planka = %+v, want %+v", cfg.Planka, want)
	}
	if cfg.Mode != ModeHTTP || cfg.HTTPPort != 8080 || cfg.Loki.URL != "https://loki.example.com" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planka.toml")
	file := `
[planka]
base_url = "http://from-file:3000"
email = "file@example.com"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(file), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(
		[]string{"--config", path, "--base-url", "http://from-flag:3000"},
		envMap(map[string]string{
			"PLANKA_BASE_URL": "http://from-env:3000",
			"LOG_LEVEL":       "warn",
		}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Planka.BaseURL != "http://from-flag:3000" {
		t.Errorf("base url = %q, want flag value", cfg.Planka.BaseURL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q, want env value", cfg.LogLevel)
	}
	if cfg.Planka.Email != "file@example.com" {
		t.Errorf("email = %q, want file value", cfg.Planka.Email)
	}
}

func TestLoadModeFallsBackToStdio(t *testing.T) {
	for _, mode := range []string{"sse", "", "STDIO", "websocket"} {
		cfg, err := Load(nil, envMap(map[string]string{"MCP_SERVER_TYPE": mode}))
		if err != nil {
			t.Fatalf("Load(%q): %v", mode, err)
		}
		if cfg.Mode != ModeStdio {
			t.Errorf("mode %q resolved to %q, want stdio", mode, cfg.Mode)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad timeout", nil, map[string]string{"PLANKA_HTTP_TIMEOUT": "soon"}},
		{"bad port", nil, map[string]string{"MCP_HTTP_PORT": "99999"}},
		{"missing config file", []string{"--config", "/nonexistent/planka.toml"}, nil},
		{"unknown flag", []string{"--bogus"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args, envMap(tt.env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLogSummaryMasksPassword(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := &Config{Planka: PlankaConfig{Email: "agent@example.com", Password: "hunter2"}}
	cfg.LogSummary(zap.New(core))

	if n := logs.FilterMessage("PLANKA_BASE_URL environment variable not set").Len(); n != 1 {
		t.Errorf("missing base URL warning logged %d times", n)
	}
	for _, entry := range logs.All() {
		for _, f := range entry.Context {
			if f.String == "hunter2" {
				t.Fatalf("password leaked in %q", entry.Message)
			}
		}
	}
	masked := logs.FilterMessage("Planka agent password").All()
	if len(masked) != 1 || masked[0].ContextMap()["PLANKA_AGENT_PASSWORD"] != "***" {
		t.Errorf("masked password entry = %+v", masked)
	}
}
