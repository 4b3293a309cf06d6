package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vortexcfd/fsi-simulations/pkg/simulation"
)

// SimulationInfo pairs a discovered manifest with its directory
type SimulationInfo struct {
	Path     string
	Manifest simulation.Manifest
}

// DiscoverSimulations finds every simulation.yaml under the repository's
// cmd directory. Broken manifests are reported and skipped.
func DiscoverSimulations() ([]SimulationInfo, error) {
	rootDir, err := findProjectRoot()
	if err != nil {
		return nil, err
	}

	var infos []SimulationInfo
	cmdDir := filepath.Join(rootDir, "cmd")

	err = filepath.Walk(cmdDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Name() != "simulation.yaml" {
			return nil
		}

		manifest, err := loadManifest(path)
		if err != nil {
			fmt.Printf("Warning: failed to load %s: %v\n", path, err)
			return nil
		}
		infos = append(infos, SimulationInfo{
			Path:     filepath.Dir(path),
			Manifest: *manifest,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for simulations: %w", err)
	}

	return infos, nil
}

func loadManifest(path string) (*simulation.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest simulation.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &manifest, nil
}

// findProjectRoot walks up from the working directory to the module root
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}
