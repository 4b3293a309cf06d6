package simulation

import (
	"context"

	"github.com/vortexcfd/fsi-simulations/pkg/comm"
	"github.com/vortexcfd/fsi-simulations/pkg/solver"
)

// Simulation is one scripted scenario driving an external solver. Each
// simulation lives under cmd/<name> with a simulation.yaml manifest and
// registers itself at init time.
type Simulation interface {
	// Name returns the simulation name used for registration and selection
	Name() string

	// Description returns a brief description of the scenario
	Description() string

	// Configure applies the parameters collected from the manifest prompts
	Configure(params map[string]interface{}) error

	// Run drives the external solver through the scenario. The communicator
	// covers the solver's process group; rank 0 owns console output.
	Run(ctx context.Context, drv solver.Driver, com comm.Communicator) error

	// Stop requests a graceful shutdown of a running scenario
	Stop() error
}
