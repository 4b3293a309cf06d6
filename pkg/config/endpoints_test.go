package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEndpointsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solvers.yaml")
	content := `endpoints:
  - name: cluster
    address: tcp://cluster:5555
    parallel: true
  - name: workstation
    address: tcp://localhost:5555
selected: cluster
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write solvers file: %v", err)
	}

	cfg, err := LoadEndpointsFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load endpoints: %v", err)
	}

	if len(cfg.Endpoints) != 2 {
		t.Fatalf("Expected 2 endpoints, got %d", len(cfg.Endpoints))
	}
	if cfg.Selected != "cluster" {
		t.Errorf("Expected selected 'cluster', got '%s'", cfg.Selected)
	}

	ep, ok := cfg.Find("cluster")
	if !ok {
		t.Fatalf("Expected to find endpoint 'cluster'")
	}
	if ep.Address != "tcp://cluster:5555" || !ep.Parallel {
		t.Errorf("Unexpected endpoint: %+v", ep)
	}
}

func TestMissingFileYieldsDefault(t *testing.T) {
	cfg, err := LoadEndpointsFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Missing file must not error: %v", err)
	}
	if len(cfg.Endpoints) == 0 {
		t.Fatalf("Expected a default endpoint")
	}
	if _, ok := cfg.Find("local"); !ok {
		t.Errorf("Expected default 'local' endpoint, got %+v", cfg.Endpoints)
	}
}
