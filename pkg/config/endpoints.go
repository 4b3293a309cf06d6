// Package config manages the named solver endpoints a workstation knows
// about, stored in ~/.fsi-sim/solvers.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Endpoint is one reachable solver shim
type Endpoint struct {
	Name     string `yaml:"name"`
	Address  string `yaml:"address"` // ZeroMQ endpoint, e.g. tcp://host:5555
	Parallel bool   `yaml:"parallel,omitempty"`
}

// Config holds the endpoint list and the preferred selection
type Config struct {
	Endpoints []Endpoint `yaml:"endpoints"`
	Selected  string     `yaml:"selected,omitempty"`
}

func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".fsi-sim", "solvers.yaml"), nil
}

// LoadEndpoints loads the endpoint list from the default location
func LoadEndpoints() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadEndpointsFromFile(path)
}

// LoadEndpointsFromFile loads an endpoint list from a specific file. A
// missing file yields the default local endpoint.
func LoadEndpointsFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultEndpoints(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read solvers file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse solvers file: %w", err)
	}
	return &cfg, nil
}

// SaveEndpoints writes the endpoint list to the default location
func SaveEndpoints(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal solvers file: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write solvers file: %w", err)
	}
	return nil
}

// Find returns the named endpoint
func (c *Config) Find(name string) (*Endpoint, bool) {
	for i := range c.Endpoints {
		if c.Endpoints[i].Name == name {
			return &c.Endpoints[i], true
		}
	}
	return nil, false
}

func defaultEndpoints() *Config {
	return &Config{
		Endpoints: []Endpoint{
			{Name: "local", Address: "tcp://localhost:5555"},
		},
	}
}
