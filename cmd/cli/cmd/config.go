package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vortexcfd/fsi-simulations/pkg/fsiconfig"
	"github.com/vortexcfd/fsi-simulations/pkg/logger"
)

var (
	configFile   string
	configStrict bool
	configOutput string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect FSI configuration files",
	Long:  `Parse, validate and export flat KEY = VALUE FSI configuration files`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Parse a configuration file and print the typed options",
	RunE:  showConfig,
}

var configExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a configuration file as YAML",
	RunE:  exportConfig,
}

func init() {
	configCmd.PersistentFlags().StringVarP(&configFile, "file", "f", "", "FSI configuration file (required)")
	configCmd.PersistentFlags().BoolVar(&configStrict, "strict", false, "Treat unknown options as errors")
	_ = configCmd.MarkPersistentFlagRequired("file")

	configExportCmd.Flags().StringVarP(&configOutput, "output", "o", "", "Output file (default: stdout)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configExportCmd)
}

func loadFSIConfig() (*fsiconfig.Config, error) {
	if configStrict {
		return fsiconfig.LoadStrict(configFile)
	}
	return fsiconfig.Load(configFile)
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadFSIConfig()
	if err != nil {
		return err
	}

	logger.Section(fmt.Sprintf("FSI options (%s)", cfg.Path()))
	fmt.Print(cfg.String())
	return nil
}

func exportConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadFSIConfig()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg.Export())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if configOutput == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(configOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configOutput, err)
	}
	logger.Successf("Exported %d options to %s", len(cfg.Keys()), configOutput)
	return nil
}
