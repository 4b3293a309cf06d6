package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vortexcfd/fsi-simulations/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available simulations",
	Long:  `List all available simulations with their descriptions`,
	RunE:  listSimulations,
}

func listSimulations(cmd *cobra.Command, args []string) error {
	simInfos, err := utils.DiscoverSimulations()
	if err != nil {
		return fmt.Errorf("failed to discover simulations: %w", err)
	}

	if len(simInfos) == 0 {
		fmt.Println("No simulations found")
		return nil
	}

	header := color.New(color.Bold)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, header.Sprint("NAME\tVERSION\tCATEGORY\tDESCRIPTION"))
	_, _ = fmt.Fprintln(w, "----\t-------\t--------\t-----------")

	for _, info := range simInfos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			info.Manifest.Name,
			info.Manifest.Version,
			info.Manifest.Category,
			info.Manifest.Description,
		)
	}

	return w.Flush()
}
