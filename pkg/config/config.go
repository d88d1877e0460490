// Package config provides configuration loading and management for solarcube.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Grid parameters for image grid and montage output
	Grid struct {
		// Cols is the number of columns in image grids
		Cols int `yaml:"cols"`

		// Gap is the pixel spacing between grid cells
		Gap int `yaml:"gap"`

		// Dpi is the density used to derive physical canvas size
		Dpi float64 `yaml:"dpi"`

		// VmaxPercentile sets the display ceiling from each image's own
		// pixel distribution; 0 disables percentile clipping
		VmaxPercentile float64 `yaml:"vmaxPercentile"`
	} `yaml:"grid"`

	// Movie parameters for animation output
	Movie struct {
		// FPS is the animation frame rate
		FPS int `yaml:"fps"`
	} `yaml:"movie"`

	// Goes parameters for the XRS timeseries fetch
	Goes struct {
		// BaseURL is the root of the file index service
		BaseURL string `yaml:"baseURL"`

		// TimeoutSeconds bounds each HTTP request
		TimeoutSeconds int `yaml:"timeoutSeconds"`
	} `yaml:"goes"`

	// Output parameters
	Output struct {
		// Verbose enables debug-level logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default grid parameters
	cfg.Grid.Cols = 4
	cfg.Grid.Gap = 0
	cfg.Grid.Dpi = 100
	cfg.Grid.VmaxPercentile = 0

	// Set default movie parameters
	cfg.Movie.FPS = 1

	// Set default fetch parameters
	cfg.Goes.BaseURL = "https://services.swpc.noaa.gov/json/goes/xrs"
	cfg.Goes.TimeoutSeconds = 30

	// Set default output parameters
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
