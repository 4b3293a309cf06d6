package fsiconfig

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vortexcfd/fsi-simulations/pkg/logger"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fsi.cfg")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadTypedValues(t *testing.T) {
	path := writeConfig(t, `
% FSI test configuration
NDIM = 2
RESTART_ITER = 10
RBF_RADIUS = 0.5
UNST_TIMESTEP = 0.01
CSD_SOLVER = NATIVE
CFD_CONFIG_FILE_NAME = flow.cfg
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Int(NDim) != 2 {
		t.Errorf("Expected NDIM 2, got %d", cfg.Int(NDim))
	}
	if cfg.Int(RestartIter) != 10 {
		t.Errorf("Expected RESTART_ITER 10, got %d", cfg.Int(RestartIter))
	}
	if cfg.Float(RBFRadius) != 0.5 {
		t.Errorf("Expected RBF_RADIUS 0.5, got %f", cfg.Float(RBFRadius))
	}
	if cfg.Float(UnstTimestep) != 0.01 {
		t.Errorf("Expected UNST_TIMESTEP 0.01, got %f", cfg.Float(UnstTimestep))
	}
	if cfg.Str(CSDSolver) != "NATIVE" {
		t.Errorf("Expected CSD_SOLVER 'NATIVE', got '%s'", cfg.Str(CSDSolver))
	}
	if cfg.Str(CFDConfigFile) != "flow.cfg" {
		t.Errorf("Expected CFD_CONFIG_FILE_NAME 'flow.cfg', got '%s'", cfg.Str(CFDConfigFile))
	}
}

func TestLoadSkipsCommentsAndBlankLines(t *testing.T) {
	var buf bytes.Buffer
	logger.SetWriter(&buf)
	defer logger.SetWriter(os.Stdout)

	path := writeConfig(t, "% comment line = looks like an option\n\nno equals sign here\nNDIM = 3\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got := cfg.Keys(); len(got) != 1 || got[0] != NDim {
		t.Errorf("Expected only NDIM to be stored, got %v", got)
	}
	if buf.Len() != 0 {
		t.Errorf("Comment and blank lines must not produce diagnostics, got %q", buf.String())
	}
}

func TestLoadUnknownKeyWarnsAndDrops(t *testing.T) {
	var buf bytes.Buffer
	logger.SetWriter(&buf)
	defer logger.SetWriter(os.Stdout)

	path := writeConfig(t, "FOO = bar\nNDIM = 2\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unknown keys must not fail the load: %v", err)
	}

	if cfg.Has("FOO") {
		t.Errorf("Unknown key FOO must not be stored")
	}
	if !strings.Contains(buf.String(), "FOO is an invalid option!") {
		t.Errorf("Expected invalid-option diagnostic, got %q", buf.String())
	}
	if cfg.Int(NDim) != 2 {
		t.Errorf("Load must continue past unknown keys, NDIM = %d", cfg.Int(NDim))
	}
}

func TestLoadStrictRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, "FOO = bar\n")

	if _, err := LoadStrict(path); err == nil {
		t.Errorf("Expected strict load to fail on unknown key")
	}
}

func TestLoadMalformedNumericFails(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad integer", "NDIM = two\n"},
		{"bad float", "RBF_RADIUS = wide\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Expected load error for %s", tt.name)
			}
		})
	}
}

func TestImposedSolverForcesStaticRelaxation(t *testing.T) {
	path := writeConfig(t, `
CSD_SOLVER = IMPOSED
AITKEN_RELAX = DYNAMIC
AITKEN_PARAM = 0.3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Str(AitkenRelax) != "STATIC" {
		t.Errorf("Expected AITKEN_RELAX 'STATIC', got '%s'", cfg.Str(AitkenRelax))
	}
	if cfg.Float(AitkenParam) != 1.0 {
		t.Errorf("Expected AITKEN_PARAM 1.0, got %f", cfg.Float(AitkenParam))
	}
}

func TestNonImposedSolverKeepsRelaxation(t *testing.T) {
	path := writeConfig(t, `
CSD_SOLVER = NATIVE
AITKEN_RELAX = DYNAMIC
AITKEN_PARAM = 0.3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Str(AitkenRelax) != "DYNAMIC" {
		t.Errorf("Expected AITKEN_RELAX 'DYNAMIC', got '%s'", cfg.Str(AitkenRelax))
	}
	if math.Abs(cfg.Float(AitkenParam)-0.3) > 1e-12 {
		t.Errorf("Expected AITKEN_PARAM 0.3, got %f", cfg.Float(AitkenParam))
	}
}

func TestStringDumpKeepsStorageOrder(t *testing.T) {
	path := writeConfig(t, "NB_FSI_ITER = 6\nNDIM = 2\nCSD_SOLVER = NATIVE\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	want := "NB_FSI_ITER = 6\nNDIM = 2\nCSD_SOLVER = NATIVE\n"
	if cfg.String() != want {
		t.Errorf("Unexpected dump:\n%s\nwant:\n%s", cfg.String(), want)
	}
}

func TestSetOverwritesWithoutReordering(t *testing.T) {
	path := writeConfig(t, "NDIM = 2\nFSI_TOLERANCE = 1e-6\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	cfg.SetInt(NDim, 3)

	if cfg.Int(NDim) != 3 {
		t.Errorf("Expected NDIM 3 after Set, got %d", cfg.Int(NDim))
	}
	if got := cfg.Keys(); got[0] != NDim {
		t.Errorf("Set must not reorder entries, got %v", got)
	}
}

func TestAbsentKeyPanics(t *testing.T) {
	path := writeConfig(t, "NDIM = 2\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic reading an absent option")
		}
	}()
	cfg.Float(RBFRadius)
}
