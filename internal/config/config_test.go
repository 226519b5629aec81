package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Project-Sylos/Helodata/internal/generator"
	"github.com/Project-Sylos/Helodata/internal/types"
)

// TestDefaultConfig tests the reference configuration
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Block.BlockSize != 512 {
		t.Errorf("Expected block size 512, got %d", cfg.Block.BlockSize)
	}
	if cfg.Block.BlockCount != 400 {
		t.Errorf("Expected block count 400, got %d", cfg.Block.BlockCount)
	}
	if cfg.Block.OutputPath != "data.dat" {
		t.Errorf("Expected output path data.dat, got %s", cfg.Block.OutputPath)
	}
	if cfg.Catalog.Enabled {
		t.Errorf("Expected catalog to be disabled by default")
	}
	if err := Validate(&cfg); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

// TestLoadFromFile tests the LoadFromFile function
func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError bool
		validate    func(*testing.T, *types.Config)
	}{
		{
			name: "full config",
			content: `{
				"block": {
					"block_size": 1024,
					"block_count": 16,
					"output_path": "custom.dat"
				},
				"catalog": {
					"enabled": true,
					"db_path": "./catalog.db"
				},
				"api": {
					"host": "0.0.0.0",
					"port": 9000
				}
			}`,
			validate: func(t *testing.T, cfg *types.Config) {
				if cfg.Block.BlockSize != 1024 || cfg.Block.BlockCount != 16 {
					t.Errorf("Unexpected layout %d x %d", cfg.Block.BlockCount, cfg.Block.BlockSize)
				}
				if cfg.Block.OutputPath != "custom.dat" {
					t.Errorf("Expected output path custom.dat, got %s", cfg.Block.OutputPath)
				}
				if !cfg.Catalog.Enabled {
					t.Errorf("Expected catalog to be enabled")
				}
				if !filepath.IsAbs(cfg.Catalog.DBPath) {
					t.Errorf("Expected absolute DB path, got %s", cfg.Catalog.DBPath)
				}
				if cfg.API.Host != "0.0.0.0" || cfg.API.Port != 9000 {
					t.Errorf("Unexpected API config %s:%d", cfg.API.Host, cfg.API.Port)
				}
			},
		},
		{
			name:    "partial config keeps defaults",
			content: `{"block": {"block_count": 10}}`,
			validate: func(t *testing.T, cfg *types.Config) {
				if cfg.Block.BlockSize != generator.DefaultBlockSize {
					t.Errorf("Expected default block size, got %d", cfg.Block.BlockSize)
				}
				if cfg.Block.BlockCount != 10 {
					t.Errorf("Expected block count 10, got %d", cfg.Block.BlockCount)
				}
				if cfg.Block.OutputPath != DefaultOutputPath {
					t.Errorf("Expected default output path, got %s", cfg.Block.OutputPath)
				}
				if cfg.API.Port != DefaultPort {
					t.Errorf("Expected default port, got %d", cfg.API.Port)
				}
			},
		},
		{
			name:    "empty catalog path stays in-memory",
			content: `{"catalog": {"enabled": true, "db_path": ""}}`,
			validate: func(t *testing.T, cfg *types.Config) {
				if cfg.Catalog.DBPath != "" {
					t.Errorf("Expected empty DB path, got %s", cfg.Catalog.DBPath)
				}
			},
		},
		{
			name:        "invalid JSON",
			content:     `{"block": {`,
			expectError: true,
		},
		{
			name:        "block size with trailing bytes",
			content:     `{"block": {"block_size": 510}}`,
			expectError: true,
		},
		{
			name:        "negative block count",
			content:     `{"block": {"block_count": -1}}`,
			expectError: true,
		},
		{
			name:        "invalid port",
			content:     `{"api": {"port": 70000}}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadFromFile(path)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

// TestLoadFromFileMissing tests loading a nonexistent file
func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nonexistent.json")); err == nil {
		t.Errorf("Expected error for missing config file")
	}
}

// TestValidate tests the Validate function
func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*types.Config)
		expectError bool
		invalidSize bool
	}{
		{name: "default", mutate: func(c *types.Config) {}},
		{name: "zero blocks", mutate: func(c *types.Config) { c.Block.BlockCount = 0 }},
		{name: "all uint32 indices", mutate: func(c *types.Config) { c.Block.BlockCount = generator.MaxBlockCount }},
		{name: "too many blocks", mutate: func(c *types.Config) { c.Block.BlockCount = generator.MaxBlockCount + 1 }, expectError: true},
		{name: "block smaller than header", mutate: func(c *types.Config) { c.Block.BlockSize = 8 }, expectError: true, invalidSize: true},
		{name: "block size not word aligned", mutate: func(c *types.Config) { c.Block.BlockSize = 515 }, expectError: true, invalidSize: true},
		{name: "empty output path", mutate: func(c *types.Config) { c.Block.OutputPath = "" }, expectError: true},
		{name: "port zero", mutate: func(c *types.Config) { c.API.Port = 0 }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := Validate(&cfg)
			if tt.expectError != (err != nil) {
				t.Fatalf("Validate() error = %v, expectError %v", err, tt.expectError)
			}
			if tt.invalidSize && !errors.Is(err, generator.ErrInvalidBlockSize) {
				t.Errorf("Expected ErrInvalidBlockSize, got %v", err)
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Errorf("Expected error for nil config")
	}
}

// TestSaveToFile tests that a saved config loads back unchanged
func TestSaveToFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Block.BlockCount = 8
	cfg.Block.OutputPath = "saved.dat"
	cfg.Catalog.Enabled = true
	cfg.Catalog.DBPath = ""

	path := filepath.Join(t.TempDir(), "saved.json")
	if err := SaveToFile(&cfg, path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if *loaded != cfg {
		t.Errorf("Loaded config %+v differs from saved %+v", *loaded, cfg)
	}
}
