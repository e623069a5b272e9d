package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/supportkit/pathfinder/internal/config"
	"github.com/supportkit/pathfinder/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "pathfinder",
	Short: "Pathfinder guides support agents through delivery problem resolution",
	Long: `Pathfinder walks an operator through a decision tree of delivery problems,
shows the prescribed resolution steps and drafts the customer message for the final step.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env", ".env", "Environment file to load before reading the configuration")
	rootCmd.PersistentFlags().String("log-level", "", "Override PATHFINDER_LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("flow", "", "Override PATHFINDER_FLOW_FILE with a YAML flow")
}

// loadConfig reads the environment and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) config.Config {
	envFile, _ := cmd.Flags().GetString("env")
	cfg := config.Load(envFile)

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if flow, _ := cmd.Flags().GetString("flow"); flow != "" {
		cfg.FlowFile = flow
	}
	return cfg
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(cfg.Level())
}
