package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/dimsnap/internal/config"
	"github.com/philipparndt/dimsnap/internal/logging"
	"github.com/philipparndt/dimsnap/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dimsnap",
	Short: "Inspect and replay snap selection for dimension placement",
	Long: `dimsnap replays recorded pointer frames through the snap selector used while
placing two-point dimensions on electrical components. It shows which reference
wins each frame, how candidates are scored, and which dimensions get placed.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the snap policy YAML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log snap target changes")
}

// setup loads the configuration and builds the logger for a command
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(cfg.Log.Mode, level)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
