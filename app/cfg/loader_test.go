package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestGetPanicsWithoutLoad(t *testing.T) {
	if globalCfg != nil {
		t.Skip("configuration already loaded by another test")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected Get to panic before Load")
		}
	}()

	Get()
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:             "./pulse.db",
		SourcesDir:         "./sources",
		DataDir:            "./data",
		RedditClientID:     "test-id",
		RedditClientSecret: "test-secret",
		RedditUserAgent:    "test-agent/1.0",
		Serve:              true,
		Port:               "8080",
		Interval:           900,
		UserAgent:          "pulse/1.0",
		Debug:              true,
		Version:            "test-version",
	}

	if cfg.DBPath != "./pulse.db" {
		t.Errorf("Expected DB path './pulse.db', got '%s'", cfg.DBPath)
	}
	if cfg.SourcesDir != "./sources" {
		t.Errorf("Expected sources dir './sources', got '%s'", cfg.SourcesDir)
	}
	if cfg.RedditClientID != "test-id" {
		t.Errorf("Expected Reddit client id 'test-id', got '%s'", cfg.RedditClientID)
	}
	if cfg.Interval != 900 {
		t.Errorf("Expected interval 900, got %d", cfg.Interval)
	}
	if !cfg.Serve {
		t.Error("Expected serve mode to be enabled")
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
