package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Project-Sylos/Helodata/internal/generator"
	"github.com/Project-Sylos/Helodata/internal/types"
)

const (
	DefaultOutputPath = "data.dat"
	DefaultDBPath     = "./helodata.db"
	DefaultHost       = "localhost"
	DefaultPort       = 8087
)

// DefaultConfig returns the reference configuration: 400 blocks of 512 bytes
// written to data.dat, with the run catalog disabled.
func DefaultConfig() types.Config {
	return types.Config{
		Block: types.BlockConfig{
			BlockSize:  generator.DefaultBlockSize,
			BlockCount: generator.DefaultBlockCount,
			OutputPath: DefaultOutputPath,
		},
		Catalog: types.CatalogConfig{
			Enabled: false,
			DBPath:  DefaultDBPath,
		},
		API: types.APIConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
	}
}

// LoadFromFile loads configuration from a JSON file.
// Fields missing from the file keep their default values.
func LoadFromFile(configPath string) (*types.Config, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if cfg.Block.OutputPath == "" {
		cfg.Block.OutputPath = DefaultOutputPath
	}
	if cfg.API.Host == "" {
		cfg.API.Host = DefaultHost
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = DefaultPort
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// An empty catalog path means an in-memory database
	if cfg.Catalog.DBPath != "" && !filepath.IsAbs(cfg.Catalog.DBPath) {
		absPath, err := filepath.Abs(cfg.Catalog.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
		cfg.Catalog.DBPath = absPath
	}

	return &cfg, nil
}

// Validate checks that the configuration parameters are valid
func Validate(cfg *types.Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := generator.ValidateLayout(cfg.Block.BlockSize); err != nil {
		return fmt.Errorf("block_size: %w", err)
	}

	if cfg.Block.BlockCount < 0 || cfg.Block.BlockCount > generator.MaxBlockCount {
		return fmt.Errorf("block_count must be between 0 and %d, got %d", generator.MaxBlockCount, cfg.Block.BlockCount)
	}

	if cfg.Block.OutputPath == "" {
		return fmt.Errorf("output_path cannot be empty")
	}

	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		return fmt.Errorf("API port must be between 1 and 65535, got %d", cfg.API.Port)
	}

	return nil
}

// SaveToFile saves configuration to a JSON file
func SaveToFile(cfg *types.Config, configPath string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
