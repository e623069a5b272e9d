package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/supportkit/pathfinder/internal/cli"
	"github.com/supportkit/pathfinder/internal/logging"
	"github.com/supportkit/pathfinder/internal/presentation/tui"
	"github.com/supportkit/pathfinder/pkg/adapters/file"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Navigate the resolution flow in the terminal",
	Long: `Starts an interactive navigator. Type an option number (or id) to descend,
b to go back, r to return to the categories, g to generate the customer script and q to quit.
With --session the walk is resumed from and saved to the session store
(redis when REDIS_ADDR is set, otherwise PATHFINDER_SESSION_DIR or .pathfinder/sessions).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID != "" && cfg.RedisAddr == "" && cfg.SessionDir == "" {
			cfg.SessionDir = file.DefaultSessionDir
		}

		// Keep stderr quiet unless asked; the navigator owns the terminal.
		logger := logging.NewNop()
		if cmd.Flags().Changed("log-level") {
			logger = newLogger(cfg)
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		rt, err := cli.NewRuntime(sigCtx, cfg, logger, cli.RuntimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		render := tui.PlainRenderer
		profile := termenv.Ascii
		fd := int(os.Stdout.Fd())
		if term.IsTerminal(fd) {
			width := 0
			if w, _, err := term.GetSize(fd); err == nil && w > 4 {
				width = w - 4
			}
			render = tui.NewRenderer(width)
			profile = termenv.ColorProfile()
			tui.PrintBanner(os.Stdout)
		}

		view := tui.NewView(os.Stdout, render, profile)
		var runOpts []cli.InteractiveOption
		if sessionID != "" {
			runOpts = append(runOpts, cli.WithSession(rt.Navigation.Manager(), sessionID))
		}
		err = cli.RunInteractive(sigCtx, os.Stdin, rt.Engine, view, os.Stdout, runOpts...)
		if errors.Is(err, context.Canceled) {
			logger.Debug("Interrupted", slog.Any("signal", sigCtx.Signal()))
			fmt.Println()
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("session", "", "Resume and persist the walk under this session id")

	// Make 'run' the default if no command is provided.
	rootCmd.RunE = runCmd.RunE
}
