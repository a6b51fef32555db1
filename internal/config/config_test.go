package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig should not return nil")
	}
	if config.Database.Path == "" {
		t.Error("Default database path should not be empty")
	}
	if config.HTTP.Port <= 0 {
		t.Error("Default HTTP port should be positive")
	}
	if config.WebSocket.PingInterval <= 0 {
		t.Error("Default ping interval should be positive")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	config := DefaultConfig()
	config.HTTP.Port = -1
	if err := config.Validate(); err == nil {
		t.Error("Invalid port should fail validation")
	}

	config = DefaultConfig()
	config.Database.Path = ""
	if err := config.Validate(); err == nil {
		t.Error("Empty database path should fail validation")
	}

	config = DefaultConfig()
	config.WebSocket = nil
	if err := config.Validate(); err == nil {
		t.Error("Missing WebSocket section should fail validation")
	}

	config = DefaultConfig()
	config.WebSocket.BufferSize = 0
	if err := config.Validate(); err == nil {
		t.Error("Zero buffer size should fail validation")
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("ATTENDBOARD_HTTP_PORT", "9090")
	os.Setenv("ATTENDBOARD_DATABASE_PATH", "/tmp/test.db")
	os.Setenv("ATTENDBOARD_WEBSOCKET_PING_INTERVAL", "15s")
	defer func() {
		os.Unsetenv("ATTENDBOARD_HTTP_PORT")
		os.Unsetenv("ATTENDBOARD_DATABASE_PATH")
		os.Unsetenv("ATTENDBOARD_WEBSOCKET_PING_INTERVAL")
	}()

	config := LoadFromEnv()

	if config.HTTP.Port != 9090 {
		t.Errorf("Expected HTTP port 9090, got %d", config.HTTP.Port)
	}
	if config.Database.Path != "/tmp/test.db" {
		t.Errorf("Expected database path /tmp/test.db, got %s", config.Database.Path)
	}
	if config.WebSocket.PingInterval != 15*time.Second {
		t.Errorf("Expected ping interval 15s, got %v", config.WebSocket.PingInterval)
	}
}

func TestLoadFromEnvInvalidValuesIgnored(t *testing.T) {
	os.Setenv("ATTENDBOARD_HTTP_PORT", "not-a-port")
	defer os.Unsetenv("ATTENDBOARD_HTTP_PORT")

	config := LoadFromEnv()
	if config.HTTP.Port != DefaultConfig().HTTP.Port {
		t.Error("Unparsable env values should fall back to defaults")
	}
}

func TestLoadFromFile(t *testing.T) {
	configContent := `{
		"database": {"path": "/tmp/file.db", "timeout": "10s"},
		"http": {"port": 9999, "host": "127.0.0.1"},
		"websocket": {"buffer_size": 50}
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Database.Path != "/tmp/file.db" {
		t.Errorf("Expected database path /tmp/file.db, got %s", config.Database.Path)
	}
	if config.Database.Timeout != 10*time.Second {
		t.Errorf("Expected database timeout 10s, got %v", config.Database.Timeout)
	}
	if config.HTTP.Port != 9999 {
		t.Errorf("Expected HTTP port 9999, got %d", config.HTTP.Port)
	}
	if config.HTTP.Host != "127.0.0.1" {
		t.Errorf("Expected HTTP host 127.0.0.1, got %s", config.HTTP.Host)
	}
	if config.WebSocket.BufferSize != 50 {
		t.Errorf("Expected buffer size 50, got %d", config.WebSocket.BufferSize)
	}
	// Unspecified fields keep defaults
	if config.HTTP.ReadTimeout != DefaultConfig().HTTP.ReadTimeout {
		t.Error("Unspecified fields should keep defaults")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.json"); err == nil {
		t.Error("Missing config file should return an error")
	}
}

func TestLoadConfigWithPrecedence(t *testing.T) {
	// Missing file falls back to env/defaults without error
	config := LoadConfigWithPrecedence("/nonexistent/config.json")
	if config == nil {
		t.Fatal("LoadConfigWithPrecedence should never return nil")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Fallback config should validate: %v", err)
	}
}
