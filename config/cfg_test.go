package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Document.Loader.Policy != "strict" {
		t.Errorf("Default loader policy = %q, want strict", cfg.Document.Loader.Policy)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Default console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `version: 1
document:
  loader:
    policy: lenient
    assign_tuids: true
logging:
  console:
    level: debug
  file:
    level: normal
    destination: /tmp/test.log
    mode: append
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Document.Loader.Policy != "lenient" || !cfg.Document.Loader.AssignTUIDs {
		t.Errorf("Loader config not applied: %+v", cfg.Document.Loader)
	}
	if cfg.Logging.FileLogger.Destination != "/tmp/test.log" || cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("File logger config not applied: %+v", cfg.Logging.FileLogger)
	}
}

func TestLoadConfiguration_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	if err := os.WriteFile(configPath, []byte("document:\n  loader:\n    policy: lenient\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version default lost: %d", cfg.Version)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Console level default lost: %q", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Document.Loader.Policy != "lenient" {
		t.Errorf("Loader policy not applied: %q", cfg.Document.Loader.Policy)
	}
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	for name, content := range map[string]string{
		"unknown field": "documnt:\n  loader:\n    policy: strict\n",
		"bad policy":    "document:\n  loader:\n    policy: relaxed\n",
		"bad version":   "version: 2\n",
		"bad log level": "logging:\n  console:\n    level: verbose\n",
		"bad log mode":  "logging:\n  file:\n    level: normal\n    mode: rotate\n",
		"not yaml":      "{{{{",
	} {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}
		if _, err := LoadConfiguration(configPath); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "policy: strict") {
		t.Errorf("Dump output missing loader policy:\n%s", data)
	}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfiguration(configPath); err != nil {
		t.Fatalf("dumped configuration does not load back: %v", err)
	}
}
