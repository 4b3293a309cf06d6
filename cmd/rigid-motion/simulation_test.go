package rigidmotion

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/vortexcfd/fsi-simulations/pkg/comm"
	"github.com/vortexcfd/fsi-simulations/pkg/solver"
	"github.com/vortexcfd/fsi-simulations/pkg/solver/simdriver"
)

func newTestSimulation(t *testing.T, params map[string]interface{}) *Simulation {
	t.Helper()
	sim := New().(*Simulation)
	if params == nil {
		params = map[string]interface{}{}
	}
	if err := sim.Configure(params); err != nil {
		t.Fatalf("Failed to configure simulation: %v", err)
	}
	return sim
}

func newTestDriver(t *testing.T, opts simdriver.Options) *simdriver.Driver {
	t.Helper()
	d, err := simdriver.New(solver.Options{}, opts)
	if err != nil {
		t.Fatalf("Failed to construct driver: %v", err)
	}
	return d
}

func countCalls(d *simdriver.Driver, prefix string) int {
	n := 0
	for _, call := range d.Calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

func TestRunExecutesAllIterations(t *testing.T) {
	opts := simdriver.DefaultOptions()
	opts.NTimeIter = 5
	d := newTestDriver(t, opts)
	sim := newTestSimulation(t, nil)

	if err := sim.Run(context.Background(), d, comm.Serial{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := countCalls(d, "preprocess"); got != 5 {
		t.Errorf("Expected 5 step sequences, got %d", got)
	}
	if got := countCalls(d, "run"); got != 5 {
		t.Errorf("Expected 5 run calls, got %d", got)
	}
	if len(d.Outputs) != 5 {
		t.Errorf("Expected output for every iteration, got %v", d.Outputs)
	}
	if !d.Finalized() {
		t.Errorf("Finalize must run after the loop")
	}
}

func TestRunStepSequenceOrder(t *testing.T) {
	opts := simdriver.DefaultOptions()
	opts.NTimeIter = 1
	d := newTestDriver(t, opts)
	sim := newTestSimulation(t, nil)

	if err := sim.Run(context.Background(), d, comm.Serial{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"preprocess(0)", "run", "postprocess", "update", "monitor(0)", "output(0)", "finalize"}
	if len(d.Calls) != len(want) {
		t.Fatalf("Unexpected call sequence: %v", d.Calls)
	}
	for i, call := range want {
		if d.Calls[i] != call {
			t.Errorf("Call %d: expected %s, got %s", i, call, d.Calls[i])
		}
	}
}

func TestEarlyStopEndsLoop(t *testing.T) {
	opts := simdriver.DefaultOptions()
	opts.NTimeIter = 10
	opts.StopAtIter = 2
	d := newTestDriver(t, opts)
	sim := newTestSimulation(t, nil)

	if err := sim.Run(context.Background(), d, comm.Serial{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Stop at iteration k runs exactly k+1 step sequences
	if got := countCalls(d, "preprocess"); got != 3 {
		t.Errorf("Expected 3 step sequences before stop, got %d", got)
	}
	// The stop iteration exits before its output is written
	if len(d.Outputs) != 2 || d.Outputs[0] != 0 || d.Outputs[1] != 1 {
		t.Errorf("Expected outputs for iterations 0 and 1, got %v", d.Outputs)
	}
	if !d.Finalized() {
		t.Errorf("Finalize must run after an early stop")
	}
}

func TestDisplacementIsZeroAtTimeZero(t *testing.T) {
	opts := simdriver.DefaultOptions()
	opts.NTimeIter = 1
	d := newTestDriver(t, opts)
	sim := newTestSimulation(t, nil)

	if err := sim.Run(context.Background(), d, comm.Serial{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for i := 0; i < opts.NVertices; i++ {
		if disp := d.Displacement(i); disp != [3]float64{} {
			t.Errorf("Vertex %d: expected zero displacement at t=0, got %v", i, disp)
		}
	}
}

func TestDisplacementFollowsSinusoid(t *testing.T) {
	opts := simdriver.DefaultOptions()
	opts.NTimeIter = 7
	opts.DeltaT = 0.03
	d := newTestDriver(t, opts)
	sim := newTestSimulation(t, map[string]interface{}{
		"amplitude": 0.0175,
		"frequency": 1.0,
	})

	if err := sim.Run(context.Background(), d, comm.Serial{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The last prescribed displacement belongs to the final iteration
	lastTime := float64(opts.NTimeIter-1) * opts.DeltaT
	want := 0.0175 * math.Sin(2*math.Pi*lastTime)
	disp := d.Displacement(0)
	if disp[0] != 0 || disp[2] != 0 {
		t.Errorf("Expected pure vertical motion, got %v", disp)
	}
	if math.Abs(disp[1]-want) > 1e-12 {
		t.Errorf("Expected d_y %g, got %g", want, disp[1])
	}
}

func TestNonDeformableMarkerDoesNotMove(t *testing.T) {
	opts := simdriver.DefaultOptions()
	opts.NTimeIter = 3
	opts.Deformable = false
	d := newTestDriver(t, opts)
	sim := newTestSimulation(t, nil)

	if err := sim.Run(context.Background(), d, comm.Serial{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for i := 0; i < opts.NVertices; i++ {
		if disp := d.Displacement(i); disp != [3]float64{} {
			t.Errorf("Vertex %d moved on a non-deformable marker: %v", i, disp)
		}
	}
	// The solver still advances every iteration
	if got := countCalls(d, "preprocess"); got != 3 {
		t.Errorf("Expected 3 step sequences, got %d", got)
	}
}

func TestRestartStartsFromStoredIteration(t *testing.T) {
	opts := simdriver.DefaultOptions()
	opts.NTimeIter = 6
	opts.StartIter = 4
	d := newTestDriver(t, opts)
	sim := newTestSimulation(t, nil)

	if err := sim.Run(context.Background(), d, comm.Serial{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := countCalls(d, "preprocess"); got != 2 {
		t.Errorf("Expected 2 step sequences from a restart at 4 of 6, got %d", got)
	}
	if len(d.Outputs) != 2 || d.Outputs[0] != 4 {
		t.Errorf("Expected outputs starting at iteration 4, got %v", d.Outputs)
	}
}

func TestCanceledContextStopsBetweenIterations(t *testing.T) {
	opts := simdriver.DefaultOptions()
	opts.NTimeIter = 50
	d := newTestDriver(t, opts)
	sim := newTestSimulation(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sim.Run(ctx, d, comm.Serial{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := countCalls(d, "preprocess"); got != 0 {
		t.Errorf("Expected no step sequences under a canceled context, got %d", got)
	}
	if !d.Finalized() {
		t.Errorf("Finalize must run even when canceled")
	}
}

func TestConfigureRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]interface{}
	}{
		{"empty marker", map[string]interface{}{"marker": ""}},
		{"non-numeric amplitude", map[string]interface{}{"amplitude": "wide"}},
		{"zero frequency", map[string]interface{}{"frequency": 0.0}},
		{"negative frequency", map[string]interface{}{"frequency": -2.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := New().Configure(tt.params); err == nil {
				t.Errorf("Expected configuration error for %s", tt.name)
			}
		})
	}
}
