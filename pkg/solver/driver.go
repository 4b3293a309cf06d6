// Package solver defines the contract of the external flow-solver driver.
// The solver itself is a separately compiled binary; every method here maps
// one-to-one onto its exposed driver API and is treated as an externally
// owned, versioned interface.
package solver

import "errors"

// ErrBuildMismatch reports that the requested parallelism does not match how
// the solver binary was built. It is the one construction failure callers
// are expected to recognize and translate into an actionable message.
var ErrBuildMismatch = errors.New("solver build does not match requested parallelism")

// Options describe how the external driver is constructed.
type Options struct {
	// ConfigPath is the solver configuration file handed to the driver.
	ConfigPath string
	// Zones is the number of mesh zones, fixed at 1 for single-zone runs.
	Zones int
	// Dims is the spatial dimensionality of the problem.
	Dims int
	// Parallel requests a communicator spanning all solver ranks.
	Parallel bool
}

// Driver is the fixed API of the external flow solver. Calls mutate the
// solver's internal state in strict sequence; no concurrent use.
type Driver interface {
	// DeformMeshMarkerTags returns the markers enabled for mesh deformation.
	DeformMeshMarkerTags() ([]string, error)
	// BoundaryMarkers maps every boundary marker name known on this rank to
	// its local ID.
	BoundaryMarkers() (map[string]int, error)

	// NumberVertices returns the total vertex count on a marker, halos
	// included.
	NumberVertices(marker int) (int, error)
	// NumberHaloVertices returns the count of vertices duplicated from
	// neighboring ranks.
	NumberHaloVertices(marker int) (int, error)
	// InitialMeshCoord returns the undeformed coordinates of one vertex.
	InitialMeshCoord(marker, vertex int) (x, y, z float64, err error)

	// UnsteadyTimeStep returns the fixed physical time step.
	UnsteadyTimeStep() (float64, error)
	// TimeIter returns the current time iteration, nonzero on restarts.
	TimeIter() (int, error)
	// NTimeIter returns the configured number of time iterations.
	NTimeIter() (int, error)

	// SetMeshDisplacement prescribes the displacement of one vertex for the
	// next mesh deformation.
	SetMeshDisplacement(marker, vertex int, dx, dy, dz float64) error

	// Preprocess, Run, Postprocess and Update advance one time iteration.
	Preprocess(iter int) error
	Run() error
	Postprocess() error
	Update() error

	// Monitor reports whether the solver wants to stop early, for example
	// on convergence.
	Monitor(iter int) (bool, error)
	// Output writes the solution files for the given iteration.
	Output(iter int) error

	// Finalize runs the solver's closing postprocessing. It is called
	// unconditionally after the time loop, early stop included.
	Finalize() error
	// Close releases the driver.
	Close() error
}
