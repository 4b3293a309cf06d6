package simdriver

import (
	"errors"
	"testing"

	"github.com/vortexcfd/fsi-simulations/pkg/solver"
)

func TestParallelRequestIsBuildMismatch(t *testing.T) {
	_, err := New(solver.Options{Parallel: true}, DefaultOptions())
	if !errors.Is(err, solver.ErrBuildMismatch) {
		t.Fatalf("Expected ErrBuildMismatch, got %v", err)
	}
}

func TestVertexAccounting(t *testing.T) {
	opts := DefaultOptions()
	opts.NVertices = 10
	opts.NHalo = 3

	d, err := New(solver.Options{}, opts)
	if err != nil {
		t.Fatalf("Failed to construct driver: %v", err)
	}

	total, err := d.NumberVertices(0)
	if err != nil || total != 10 {
		t.Errorf("Expected 10 vertices, got %d (err %v)", total, err)
	}
	halo, err := d.NumberHaloVertices(0)
	if err != nil || halo != 3 {
		t.Errorf("Expected 3 halo vertices, got %d (err %v)", halo, err)
	}

	if _, err := d.NumberVertices(7); err == nil {
		t.Errorf("Expected error for unknown marker ID")
	}
}

func TestInitialCoordsSpanUnitLine(t *testing.T) {
	opts := DefaultOptions()
	opts.NVertices = 5

	d, err := New(solver.Options{}, opts)
	if err != nil {
		t.Fatalf("Failed to construct driver: %v", err)
	}

	x0, y0, _, err := d.InitialMeshCoord(0, 0)
	if err != nil {
		t.Fatalf("InitialMeshCoord failed: %v", err)
	}
	xN, _, _, err := d.InitialMeshCoord(0, 4)
	if err != nil {
		t.Fatalf("InitialMeshCoord failed: %v", err)
	}

	if x0 != 0 || y0 != 0 {
		t.Errorf("Expected first vertex at origin, got (%g, %g)", x0, y0)
	}
	if xN != 1 {
		t.Errorf("Expected last vertex at x=1, got %g", xN)
	}
}
