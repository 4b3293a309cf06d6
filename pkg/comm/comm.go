// Package comm abstracts the process group a run executes in. The real
// communicator lives inside the external solver; this layer only exposes
// what the orchestration loop needs: the local rank, the group size and
// one collective barrier before the time loop starts.
package comm

// Communicator is the view of the process group available to a simulation.
type Communicator interface {
	Rank() int
	Size() int
	Barrier() error
}

// Serial is the stand-in communicator for single-process runs: rank 0,
// size 1, barriers are no-ops.
type Serial struct{}

func (Serial) Rank() int      { return 0 }
func (Serial) Size() int      { return 1 }
func (Serial) Barrier() error { return nil }
