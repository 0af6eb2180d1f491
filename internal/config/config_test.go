// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdxcore/atlas/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("non-existent file", func(t *testing.T) {
		cfg, err := config.Load("non-existent-file.json", false)
		if err != nil {
			t.Errorf("expected no error for non-existent file, got %v", err)
		}
		if cfg == nil {
			t.Fatalf("expected non-nil config")
		}
		if cfg.TtlDays != 7 {
			t.Errorf("expected default TtlDays 7, got %d", cfg.TtlDays)
		}
	})

	t.Run("directory error", func(t *testing.T) {
		tmpDir := t.TempDir()
		_, err := config.Load(tmpDir, false)
		if err == nil {
			t.Errorf("expected error for directory, got nil")
		}
	})

	t.Run("empty config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "atlas.json")
		if err := os.WriteFile(configFile, []byte("{}"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}
		cfg, err := config.Load(configFile, false)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if cfg.TtlDays != 7 {
			t.Errorf("expected default TtlDays to survive an empty override, got %d", cfg.TtlDays)
		}
	})

	t.Run("partial config overrides only set fields", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "atlas.json")
		testConfig := config.Config{
			CacheDir: "/var/cache/atlas",
			TtlDays:  30,
		}
		data, err := json.Marshal(testConfig)
		if err != nil {
			t.Fatalf("failed to marshal test config: %v", err)
		}
		if err := os.WriteFile(configFile, data, 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		cfg, err := config.Load(configFile, false)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if cfg.CacheDir != "/var/cache/atlas" {
			t.Errorf("expected CacheDir override, got %q", cfg.CacheDir)
		}
		if cfg.TtlDays != 30 {
			t.Errorf("expected TtlDays override 30, got %d", cfg.TtlDays)
		}
		// fields not set in the override keep their defaults
		if !cfg.UseCache {
			t.Errorf("expected UseCache to remain default true")
		}
		if !cfg.Validate {
			t.Errorf("expected Validate to remain default true")
		}
	})

	t.Run("invalid JSON falls back to defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "atlas.json")
		if err := os.WriteFile(configFile, []byte("not json"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}
		cfg, err := config.Load(configFile, true)
		if err != nil {
			t.Errorf("expected no error for invalid JSON, got %v", err)
		}
		if cfg.TtlDays != 7 {
			t.Errorf("expected default config for invalid JSON, got TtlDays=%d", cfg.TtlDays)
		}
	})
}
