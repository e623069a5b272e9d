package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/supportkit/pathfinder/internal/cli"
	"github.com/supportkit/pathfinder/internal/logging"
	"github.com/supportkit/pathfinder/internal/presentation/graph"
	"github.com/supportkit/pathfinder/pkg/domain"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the flow as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the flow.
With --path the steps of that path are highlighted, e.g. --path late/action_needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		rt, err := cli.NewRuntime(cmd.Context(), cfg, logging.NewNop(), cli.RuntimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		var overlay *graph.GraphOverlay
		if p, _ := cmd.Flags().GetString("path"); strings.Trim(p, "/") != "" {
			path := domain.Path(strings.Split(strings.Trim(p, "/"), "/"))
			if _, err := rt.Engine.Graph().Lookup(path); err != nil {
				return err
			}
			overlay = &graph.GraphOverlay{Path: path}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(rt.Engine.Graph(), rt.Engine.Name, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("path", "", "Slash separated option ids to highlight")
}
