package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vortexcfd/fsi-simulations/pkg/logger"
)

var (
	cfgFile    string
	solverName string
	logLevel   string
	noColor    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fsi-sim",
	Short: "FSI simulation CLI",
	Long: `fsi-sim drives an external flow solver through scripted unsteady
scenarios, such as prescribed rigid-body motion of boundary markers,
using the solver's exposed driver API.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fsi-sim/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&solverName, "solver", "", "solver endpoint name or address")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(solversCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	logger.SetLevel(logger.ParseLevel(logLevel))
	if noColor {
		logger.SetNoColor(true)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME/.fsi-sim")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("FSI")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}
