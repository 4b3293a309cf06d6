package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/vortexcfd/fsi-simulations/pkg/config"
	"github.com/vortexcfd/fsi-simulations/pkg/logger"
)

var (
	epName     string
	epAddress  string
	epParallel bool
)

var solversCmd = &cobra.Command{
	Use:   "solvers",
	Short: "Manage solver endpoints",
	Long:  `List, add and select the solver shims this workstation can reach`,
}

var solversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known solver endpoints",
	RunE:  listSolvers,
}

var solversAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a solver endpoint",
	RunE:  addSolver,
}

var solversSelectCmd = &cobra.Command{
	Use:   "select [name]",
	Short: "Select the default solver endpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE:  selectSolver,
}

func init() {
	solversAddCmd.Flags().StringVar(&epName, "name", "", "Endpoint name")
	solversAddCmd.Flags().StringVar(&epAddress, "address", "", "ZeroMQ endpoint, e.g. tcp://host:5555")
	solversAddCmd.Flags().BoolVar(&epParallel, "parallel", false, "Shim fronts a parallel solver build")

	solversCmd.AddCommand(solversListCmd)
	solversCmd.AddCommand(solversAddCmd)
	solversCmd.AddCommand(solversSelectCmd)
}

func listSolvers(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEndpoints()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tADDRESS\tBUILD\tSELECTED")
	for _, ep := range cfg.Endpoints {
		build := "serial"
		if ep.Parallel {
			build = "parallel"
		}
		selected := ""
		if ep.Name == cfg.Selected {
			selected = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ep.Name, ep.Address, build, selected)
	}
	return w.Flush()
}

func addSolver(cmd *cobra.Command, args []string) error {
	if epName == "" {
		if err := survey.AskOne(&survey.Input{Message: "Endpoint name:"}, &epName, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if epAddress == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Address:",
			Default: "tcp://localhost:5555",
		}, &epAddress, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	cfg, err := config.LoadEndpoints()
	if err != nil {
		return err
	}
	if _, exists := cfg.Find(epName); exists {
		return fmt.Errorf("endpoint %q already exists", epName)
	}

	cfg.Endpoints = append(cfg.Endpoints, config.Endpoint{
		Name:     epName,
		Address:  epAddress,
		Parallel: epParallel,
	})
	if err := config.SaveEndpoints(cfg); err != nil {
		return err
	}

	logger.Successf("Added solver endpoint %s (%s)", epName, epAddress)
	return nil
}

func selectSolver(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEndpoints()
	if err != nil {
		return err
	}
	if len(cfg.Endpoints) == 0 {
		return fmt.Errorf("no solver endpoints configured, add one with 'fsi-sim solvers add'")
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		names := make([]string, len(cfg.Endpoints))
		for i, ep := range cfg.Endpoints {
			names[i] = ep.Name
		}
		if err := survey.AskOne(&survey.Select{
			Message: "Select default solver:",
			Options: names,
		}, &name); err != nil {
			return err
		}
	}

	if _, ok := cfg.Find(name); !ok {
		return fmt.Errorf("unknown solver endpoint %q", name)
	}

	cfg.Selected = name
	if err := config.SaveEndpoints(cfg); err != nil {
		return err
	}

	logger.Successf("Selected solver endpoint %s", name)
	return nil
}
