// Package rigidmotion drives an external flow solver through a fixed number
// of time steps while prescribing a sinusoidal plunging motion on one
// boundary marker. The solver does all the physics; this scenario only
// sequences its driver API.
package rigidmotion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vortexcfd/fsi-simulations/pkg/comm"
	"github.com/vortexcfd/fsi-simulations/pkg/logger"
	"github.com/vortexcfd/fsi-simulations/pkg/monitor"
	"github.com/vortexcfd/fsi-simulations/pkg/motion"
	"github.com/vortexcfd/fsi-simulations/pkg/reporting"
	"github.com/vortexcfd/fsi-simulations/pkg/simulation"
	"github.com/vortexcfd/fsi-simulations/pkg/solver"
)

// Simulation implements the rigid-motion scenario.
type Simulation struct {
	config   *Config
	stopChan chan struct{}

	// Feed, when set, receives one record per time iteration.
	Feed *monitor.Server
}

// New creates an unconfigured rigid-motion simulation.
func New() simulation.Simulation {
	return &Simulation{stopChan: make(chan struct{})}
}

// Name returns the simulation name
func (s *Simulation) Name() string {
	return "rigid-motion"
}

// Description returns the simulation description
func (s *Simulation) Description() string {
	return "Prescribed sinusoidal plunging of a boundary marker"
}

// Configure applies the scenario parameters
func (s *Simulation) Configure(params map[string]interface{}) error {
	config, err := ValidateAndParse(params)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	s.config = config
	return nil
}

// Stop requests a graceful shutdown between iterations
func (s *Simulation) Stop() error {
	close(s.stopChan)
	return nil
}

// Run resolves the moving marker, then advances the solver one time
// iteration at a time, applying the displacement law before each step.
func (s *Simulation) Run(ctx context.Context, drv solver.Driver, com comm.Communicator) error {
	if s.config == nil {
		return fmt.Errorf("simulation not configured")
	}

	rank := com.Rank()
	runID := uuid.New()
	law := motion.Sinusoid{Amplitude: s.config.Amplitude, Frequency: s.config.Frequency}

	// A marker moves only when it is both enabled for mesh deformation and
	// present on this rank.
	markerID := -1
	tags, err := drv.DeformMeshMarkerTags()
	if err != nil {
		return fmt.Errorf("querying deformable markers: %w", err)
	}
	markers, err := drv.BoundaryMarkers()
	if err != nil {
		return fmt.Errorf("querying boundary markers: %w", err)
	}
	if id, onRank := markers[s.config.Marker]; onRank && contains(tags, s.config.Marker) {
		markerID = id
	}

	nVertex := 0
	nVertexHalo := 0
	if markerID >= 0 {
		nVertex, err = drv.NumberVertices(markerID)
		if err != nil {
			return fmt.Errorf("counting marker vertices: %w", err)
		}
		nVertexHalo, err = drv.NumberHaloVertices(markerID)
		if err != nil {
			return fmt.Errorf("counting halo vertices: %w", err)
		}
	}
	nVertexPhys := nVertex - nVertexHalo

	// Initial coordinates are reference data for the whole run
	initCoords := make([][3]float64, nVertex)
	for iVertex := 0; iVertex < nVertex; iVertex++ {
		x, y, z, err := drv.InitialMeshCoord(markerID, iVertex)
		if err != nil {
			return fmt.Errorf("fetching initial coordinates: %w", err)
		}
		initCoords[iVertex] = [3]float64{x, y, z}
	}

	deltaT, err := drv.UnsteadyTimeStep()
	if err != nil {
		return fmt.Errorf("querying time step: %w", err)
	}
	timeIter, err := drv.TimeIter()
	if err != nil {
		return fmt.Errorf("querying time iteration: %w", err)
	}
	nTimeIter, err := drv.NTimeIter()
	if err != nil {
		return fmt.Errorf("querying iteration count: %w", err)
	}
	physTime := float64(timeIter) * deltaT

	if rank == 0 {
		logger.Infof("run %s: marker %q on %d vertices (%d physical, %d halo)",
			runID, s.config.Marker, nVertex, nVertexPhys, nVertexHalo)
		if markerID < 0 {
			logger.Warnf("marker %q is not deformable on this rank, no motion will be applied", s.config.Marker)
		} else if nVertex > 1 {
			logger.Debugf("marker extent: x in [%g, %g]", initCoords[0][0], initCoords[nVertex-1][0])
		}
		logger.Section("Begin Solver")
	}
	if err := com.Barrier(); err != nil {
		return fmt.Errorf("startup barrier: %w", err)
	}

	start := time.Now()
	iterations := 0
	earlyStop := false

loop:
	for timeIter < nTimeIter {
		select {
		case <-ctx.Done():
			break loop
		case <-s.stopChan:
			break loop
		default:
		}

		// Rigid-body displacement of every vertex on the moving marker
		dx, dy, dz := law.Displacement(physTime)
		for iVertex := 0; iVertex < nVertex; iVertex++ {
			if err := drv.SetMeshDisplacement(markerID, iVertex, dx, dy, dz); err != nil {
				return fmt.Errorf("setting displacement: %w", err)
			}
		}

		// One full solver time step
		if err := drv.Preprocess(timeIter); err != nil {
			return fmt.Errorf("preprocessing iteration %d: %w", timeIter, err)
		}
		if err := drv.Run(); err != nil {
			return fmt.Errorf("running iteration %d: %w", timeIter, err)
		}
		if err := drv.Postprocess(); err != nil {
			return fmt.Errorf("postprocessing iteration %d: %w", timeIter, err)
		}
		if err := drv.Update(); err != nil {
			return fmt.Errorf("updating after iteration %d: %w", timeIter, err)
		}

		iterations++

		stop, err := drv.Monitor(timeIter)
		if err != nil {
			return fmt.Errorf("monitoring iteration %d: %w", timeIter, err)
		}

		if s.Feed != nil {
			s.Feed.Publish(monitor.Record{
				RunID:        runID.String(),
				Iter:         timeIter,
				Time:         physTime,
				Displacement: [3]float64{dx, dy, dz},
				Stop:         stop,
			})
		}

		if stop {
			earlyStop = true
			break
		}

		if err := drv.Output(timeIter); err != nil {
			return fmt.Errorf("writing output for iteration %d: %w", timeIter, err)
		}

		timeIter++
		physTime += deltaT
	}

	// Closing postprocessing runs no matter how the loop ended
	if err := drv.Finalize(); err != nil {
		return fmt.Errorf("finalizing solver: %w", err)
	}

	if rank == 0 {
		reporting.RunSummary{
			RunID:      runID,
			Simulation: s.Name(),
			Iterations: iterations,
			FinalTime:  physTime,
			EarlyStop:  earlyStop,
			WallTime:   time.Since(start),
		}.Print()
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// init registers the simulation
func init() {
	if err := simulation.DefaultRegistry.Register("rigid-motion", New); err != nil {
		logger.Errorf("Failed to register simulation: %v", err)
	}
}
