package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatalf("LoadArgs failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.FixturesDir != "./fixtures" {
		t.Errorf("Expected fixtures dir './fixtures', got '%s'", cfg.FixturesDir)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("Expected fetch timeout 30s, got %v", cfg.FetchTimeout)
	}
	if cfg.FetchWorkers != 5 {
		t.Errorf("Expected 5 fetch workers, got %d", cfg.FetchWorkers)
	}
	if cfg.UserAgent != "RSS Desk/1.0" {
		t.Errorf("Expected user agent 'RSS Desk/1.0', got '%s'", cfg.UserAgent)
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadArgsOverrides(t *testing.T) {
	t.Setenv("FETCH_WORKERS", "9")

	cfg, err := LoadArgs([]string{"--port", "9090", "--fetch-timeout", "5", "--db-path", "/tmp/desk.db", "--debug"})
	if err != nil {
		t.Fatalf("LoadArgs failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("Expected fetch timeout 5s, got %v", cfg.FetchTimeout)
	}
	if cfg.FetchWorkers != 9 {
		t.Errorf("Expected fetch workers from env to be 9, got %d", cfg.FetchWorkers)
	}
	if cfg.DBPath != "/tmp/desk.db" {
		t.Errorf("Expected db path '/tmp/desk.db', got '%s'", cfg.DBPath)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadArgsRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero timeout", []string{"--fetch-timeout", "0"}},
		{"negative workers", []string{"--fetch-workers", "-1"}},
		{"unknown flag", []string{"--no-such-flag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadArgs(tt.args); err == nil {
				t.Errorf("Expected error for args %v", tt.args)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Expected missing env file to be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RSS_DESK_TEST_VALUE=from-file\n"), 0o644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Setenv("RSS_DESK_TEST_VALUE", "")
	os.Unsetenv("RSS_DESK_TEST_VALUE")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile failed: %v", err)
	}
	if got := os.Getenv("RSS_DESK_TEST_VALUE"); got != "from-file" {
		t.Errorf("Expected 'from-file', got '%s'", got)
	}
}
