// Package simdriver is a synthetic flow-solver driver. It answers the full
// driver API from in-memory state so the orchestration loop can run without
// a solver binary: dry runs, demos and the loop tests all use it. The
// "physics" is a residual decaying geometrically per iteration.
package simdriver

import (
	"fmt"
	"math"
	"sync"

	"github.com/vortexcfd/fsi-simulations/pkg/solver"
)

// Options configure the synthetic solver.
type Options struct {
	// NVertices is the total vertex count of the plate marker.
	NVertices int
	// NHalo of those are halo vertices.
	NHalo int
	// NTimeIter is the configured iteration count.
	NTimeIter int
	// DeltaT is the fixed unsteady time step.
	DeltaT float64
	// StartIter is the first time iteration, nonzero to mimic restarts.
	StartIter int
	// StopAtIter makes Monitor signal an early stop at that iteration.
	// Negative means never.
	StopAtIter int
	// MarkerName is the deformable marker the driver exposes.
	MarkerName string
	// Deformable controls whether the marker is enabled for mesh
	// deformation; when false the marker exists but cannot move.
	Deformable bool
}

// DefaultOptions mimic the flat-plate case: one deformable "plate" marker,
// a small vertex line, no early stop.
func DefaultOptions() Options {
	return Options{
		NVertices:  16,
		NHalo:      0,
		NTimeIter:  20,
		DeltaT:     0.005,
		StopAtIter: -1,
		MarkerName: "plate",
		Deformable: true,
	}
}

// Driver implements solver.Driver from synthetic state.
type Driver struct {
	mu   sync.Mutex
	opts Options

	coords        [][3]float64
	displacements [][3]float64
	residual      float64
	closed        bool
	finalized     bool

	// Calls records the lifecycle methods invoked, in order. Tests use it
	// to check the fixed per-iteration sequence.
	Calls []string
	// Outputs records the iterations Output was requested for.
	Outputs []int
}

// New constructs the synthetic driver. A parallel request is refused: this
// driver is the equivalent of a serial solver build.
func New(opts solver.Options, simOpts Options) (*Driver, error) {
	if opts.Parallel {
		return nil, fmt.Errorf("simdriver: %w", solver.ErrBuildMismatch)
	}
	if simOpts.NVertices <= 0 {
		return nil, fmt.Errorf("simdriver: vertex count must be positive")
	}
	if simOpts.NHalo < 0 || simOpts.NHalo > simOpts.NVertices {
		return nil, fmt.Errorf("simdriver: halo count out of range")
	}

	d := &Driver{
		opts:          simOpts,
		coords:        make([][3]float64, simOpts.NVertices),
		displacements: make([][3]float64, simOpts.NVertices),
		residual:      1.0,
	}

	// Vertices along a unit line, the flat plate at rest
	for i := range d.coords {
		if simOpts.NVertices > 1 {
			d.coords[i][0] = float64(i) / float64(simOpts.NVertices-1)
		}
	}
	return d, nil
}

func (d *Driver) DeformMeshMarkerTags() ([]string, error) {
	if !d.opts.Deformable {
		return nil, nil
	}
	return []string{d.opts.MarkerName}, nil
}

func (d *Driver) BoundaryMarkers() (map[string]int, error) {
	return map[string]int{d.opts.MarkerName: 0, "farfield": 1}, nil
}

func (d *Driver) NumberVertices(marker int) (int, error) {
	if err := d.checkMarker(marker); err != nil {
		return 0, err
	}
	return d.opts.NVertices, nil
}

func (d *Driver) NumberHaloVertices(marker int) (int, error) {
	if err := d.checkMarker(marker); err != nil {
		return 0, err
	}
	return d.opts.NHalo, nil
}

func (d *Driver) InitialMeshCoord(marker, vertex int) (float64, float64, float64, error) {
	if err := d.checkVertex(marker, vertex); err != nil {
		return 0, 0, 0, err
	}
	c := d.coords[vertex]
	return c[0], c[1], c[2], nil
}

func (d *Driver) UnsteadyTimeStep() (float64, error) { return d.opts.DeltaT, nil }
func (d *Driver) TimeIter() (int, error)             { return d.opts.StartIter, nil }
func (d *Driver) NTimeIter() (int, error)            { return d.opts.NTimeIter, nil }

func (d *Driver) SetMeshDisplacement(marker, vertex int, dx, dy, dz float64) error {
	if err := d.checkVertex(marker, vertex); err != nil {
		return err
	}
	d.mu.Lock()
	d.displacements[vertex] = [3]float64{dx, dy, dz}
	d.mu.Unlock()
	return nil
}

// Displacement returns the last displacement prescribed for a vertex.
func (d *Driver) Displacement(vertex int) [3]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.displacements[vertex]
}

func (d *Driver) Preprocess(iter int) error { return d.record(fmt.Sprintf("preprocess(%d)", iter)) }
func (d *Driver) Run() error {
	d.mu.Lock()
	d.residual *= 0.5
	d.mu.Unlock()
	return d.record("run")
}
func (d *Driver) Postprocess() error { return d.record("postprocess") }
func (d *Driver) Update() error      { return d.record("update") }

func (d *Driver) Monitor(iter int) (bool, error) {
	if err := d.record(fmt.Sprintf("monitor(%d)", iter)); err != nil {
		return false, err
	}
	return d.opts.StopAtIter >= 0 && iter >= d.opts.StopAtIter, nil
}

func (d *Driver) Output(iter int) error {
	d.mu.Lock()
	d.Outputs = append(d.Outputs, iter)
	d.mu.Unlock()
	return d.record(fmt.Sprintf("output(%d)", iter))
}

func (d *Driver) Finalize() error {
	d.mu.Lock()
	d.finalized = true
	d.mu.Unlock()
	return d.record("finalize")
}

func (d *Driver) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

// Finalized reports whether Finalize has run.
func (d *Driver) Finalized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finalized
}

// Residual returns the synthetic flow residual in orders of magnitude.
func (d *Driver) Residual() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return math.Log10(d.residual)
}

func (d *Driver) record(call string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("simdriver: driver is closed")
	}
	d.Calls = append(d.Calls, call)
	return nil
}

func (d *Driver) checkMarker(marker int) error {
	if marker != 0 {
		return fmt.Errorf("simdriver: no marker with ID %d", marker)
	}
	return nil
}

func (d *Driver) checkVertex(marker, vertex int) error {
	if err := d.checkMarker(marker); err != nil {
		return err
	}
	if vertex < 0 || vertex >= d.opts.NVertices {
		return fmt.Errorf("simdriver: vertex %d out of range", vertex)
	}
	return nil
}
