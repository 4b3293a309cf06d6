package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	rigidmotion "github.com/vortexcfd/fsi-simulations/cmd/rigid-motion"
	"github.com/vortexcfd/fsi-simulations/pkg/comm"
	"github.com/vortexcfd/fsi-simulations/pkg/config"
	"github.com/vortexcfd/fsi-simulations/pkg/logger"
	"github.com/vortexcfd/fsi-simulations/pkg/monitor"
	"github.com/vortexcfd/fsi-simulations/pkg/simulation"
	"github.com/vortexcfd/fsi-simulations/pkg/solver"
	"github.com/vortexcfd/fsi-simulations/pkg/solver/simdriver"
	"github.com/vortexcfd/fsi-simulations/pkg/solver/zmqlink"
	"github.com/vortexcfd/fsi-simulations/pkg/utils"
)

// The scenario script fixes dimensionality and zone count; they are not
// user-configurable.
const (
	nDim  = 2
	nZone = 1
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Long:  `Run a simulation against an external solver, interactively or with specified parameters`,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().StringP("simulation", "s", "", "simulation name to run")
	runCmd.Flags().StringP("file", "f", "", "solver configuration file")
	runCmd.Flags().Bool("parallel", false, "initialize a communicator spanning all solver ranks")
	runCmd.Flags().StringP("params", "p", "", "parameters file (YAML)")
	runCmd.Flags().Bool("dry-run", false, "use the built-in synthetic solver instead of a real one")
	runCmd.Flags().String("monitor-addr", "", "serve a live websocket iteration feed on this address")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	simName, err := selectSimulation(cmd)
	if err != nil {
		return fmt.Errorf("failed to select simulation: %w", err)
	}

	sim, err := simulation.DefaultRegistry.Get(simName)
	if err != nil {
		return fmt.Errorf("failed to get simulation: %w", err)
	}

	params, err := collectParameters(cmd, simName)
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}
	if err := sim.Configure(params); err != nil {
		return fmt.Errorf("failed to configure simulation: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("file")
	parallel, _ := cmd.Flags().GetBool("parallel")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	opts := solver.Options{
		ConfigPath: configFile,
		Zones:      nZone,
		Dims:       nDim,
		Parallel:   parallel,
	}

	drv, com, err := connectSolver(opts, dryRun)
	if err != nil {
		// A build mismatch is an operator mistake, not a failed run: explain
		// it and return normally.
		if errors.Is(err, solver.ErrBuildMismatch) {
			logger.Errorf("Could not initialize the solver driver: %v", err)
			if parallel {
				logger.Error("You are trying to initialize a communicator with a serial build of the solver. Remove the --parallel option that is incompatible with a serial build.")
			} else {
				logger.Error("You are trying to launch a computation without initializing a communicator but the solver has been built in parallel. Add the --parallel option in order to initialize the communicator.")
			}
			return nil
		}
		return fmt.Errorf("failed to connect solver: %w", err)
	}
	defer func() { _ = drv.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if addr, _ := cmd.Flags().GetString("monitor-addr"); addr != "" {
		if rm, ok := sim.(*rigidmotion.Simulation); ok {
			feed := monitor.NewServer()
			rm.Feed = feed
			go func() {
				if err := feed.ListenAndServe(ctx, addr); err != nil {
					logger.Errorf("Iteration feed failed: %v", err)
				}
			}()
			logger.Infof("Serving iteration feed on %s", addr)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Received interrupt signal, stopping simulation...")
		if err := sim.Stop(); err != nil {
			logger.Errorf("Failed to stop simulation: %v", err)
			return
		}
		cancel()
	}()

	if com.Rank() == 0 {
		logger.Section(fmt.Sprintf("Starting %s", sim.Name()))
	}
	if err := sim.Run(ctx, drv, com); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if com.Rank() == 0 {
		logger.Success("Simulation completed")
	}
	return nil
}

// connectSolver builds the driver and the communicator view of its process
// group. Dry runs get the synthetic in-process solver.
func connectSolver(opts solver.Options, dryRun bool) (solver.Driver, comm.Communicator, error) {
	if dryRun {
		drv, err := simdriver.New(opts, simdriver.DefaultOptions())
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Dry run: using the built-in synthetic solver")
		return drv, comm.Serial{}, nil
	}

	address, err := resolveSolverAddress()
	if err != nil {
		return nil, nil, err
	}

	var client *zmqlink.Client
	err = logger.WithSpinner(fmt.Sprintf("Connecting to solver at %s", address), func() error {
		var dialErr error
		client, dialErr = zmqlink.Dial(address, opts)
		return dialErr
	})
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}

// resolveSolverAddress turns the --solver flag into a ZeroMQ address. A
// value containing a transport prefix is used verbatim; anything else is
// looked up in the endpoint list, falling back to an interactive selection.
func resolveSolverAddress() (string, error) {
	if strings.Contains(solverName, "://") {
		return solverName, nil
	}

	endpoints, err := config.LoadEndpoints()
	if err != nil {
		return "", err
	}

	if solverName != "" {
		ep, ok := endpoints.Find(solverName)
		if !ok {
			return "", fmt.Errorf("solver endpoint %s not found", solverName)
		}
		return ep.Address, nil
	}

	if endpoints.Selected != "" {
		if ep, ok := endpoints.Find(endpoints.Selected); ok {
			return ep.Address, nil
		}
	}

	if len(endpoints.Endpoints) == 1 {
		return endpoints.Endpoints[0].Address, nil
	}

	options := make([]string, len(endpoints.Endpoints))
	for i, ep := range endpoints.Endpoints {
		options[i] = ep.Name
	}
	var selected string
	prompt := &survey.Select{
		Message: "Select solver endpoint:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	ep, _ := endpoints.Find(selected)
	return ep.Address, nil
}

// collectParameters reads a params file when given, otherwise prompts from
// the simulation's manifest.
func collectParameters(cmd *cobra.Command, simName string) (map[string]interface{}, error) {
	if paramsFile, _ := cmd.Flags().GetString("params"); paramsFile != "" {
		data, err := os.ReadFile(paramsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file: %w", err)
		}
		params := make(map[string]interface{})
		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("failed to parse params file: %w", err)
		}
		return params, nil
	}

	simInfos, err := utils.DiscoverSimulations()
	if err != nil {
		return nil, err
	}
	for _, info := range simInfos {
		if info.Manifest.Name == simName {
			return utils.PromptForParameters(info.Manifest.Parameters)
		}
	}

	// No manifest found: run on the simulation's built-in defaults
	return map[string]interface{}{}, nil
}

func selectSimulation(cmd *cobra.Command) (string, error) {
	simName, _ := cmd.Flags().GetString("simulation")
	if simName != "" {
		return simName, nil
	}

	names := simulation.DefaultRegistry.List()
	if len(names) == 0 {
		return "", fmt.Errorf("no simulations registered")
	}
	if len(names) == 1 {
		return names[0], nil
	}

	descriptions := make(map[string]string, len(names))
	for _, name := range names {
		if sim, err := simulation.DefaultRegistry.Get(name); err == nil {
			descriptions[name] = sim.Description()
		}
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select simulation:",
		Options: names,
		Description: func(value string, index int) string {
			return descriptions[value]
		},
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}
