// Package reporting prints end-of-run summaries for solver runs.
package reporting

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var (
	labelColor   = color.New(color.FgCyan)
	valueColor   = color.New(color.Bold)
	stopColor    = color.New(color.FgYellow, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
)

// RunSummary captures what happened during one driver run.
type RunSummary struct {
	RunID      uuid.UUID
	Simulation string
	Iterations int
	FinalTime  float64
	EarlyStop  bool
	WallTime   time.Duration
}

// Print writes the summary to stdout.
func (s RunSummary) Print() {
	fmt.Println()
	_, _ = labelColor.Print("Run:          ")
	_, _ = valueColor.Println(s.RunID)
	_, _ = labelColor.Print("Simulation:   ")
	_, _ = valueColor.Println(s.Simulation)
	_, _ = labelColor.Print("Iterations:   ")
	_, _ = valueColor.Println(s.Iterations)
	_, _ = labelColor.Print("Final time:   ")
	_, _ = valueColor.Printf("%g\n", s.FinalTime)
	_, _ = labelColor.Print("Wall time:    ")
	_, _ = valueColor.Println(s.WallTime.Round(time.Millisecond))
	_, _ = labelColor.Print("Termination:  ")
	if s.EarlyStop {
		_, _ = stopColor.Println("early stop signaled by solver")
	} else {
		_, _ = successColor.Println("completed all iterations")
	}
}
