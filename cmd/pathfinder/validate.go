package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/supportkit/pathfinder/internal/presentation/markup"
	"github.com/supportkit/pathfinder/pkg/adapters/file"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/flow"
)

var validateCmd = &cobra.Command{
	Use:   "validate <flow.yaml>",
	Short: "Check a flow file for authoring errors",
	Long: `Loads a YAML flow and reports every structural problem (duplicate ids, dead ends,
empty titles) together with content blocks that cannot be rendered.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := file.NewLoader(args[0])
		g, err := loader.LoadFlow()
		if err != nil {
			return reportProblems(cmd, err)
		}

		if err := checkContent(g); err != nil {
			return reportProblems(cmd, err)
		}

		stats := g.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "Flow %q is valid! ✅ (%d categories, %d nodes, %d final steps, depth %d)\n",
			loader.Name(), stats.Categories, stats.Nodes, stats.Finals, stats.MaxDepth)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// checkContent renders every title and content block once.
func checkContent(g *flow.Graph) error {
	var errs []error
	_ = g.Walk(func(path domain.Path, n *domain.Node) error {
		if _, err := markup.Markdown(n.Content); err != nil {
			errs = append(errs, fmt.Errorf("%s: content: %w", path, err))
		}
		if _, err := markup.Markdown(n.Title); err != nil {
			errs = append(errs, fmt.Errorf("%s: title: %w", path, err))
		}
		return nil
	})
	return errors.Join(errs...)
}

func reportProblems(cmd *cobra.Command, err error) error {
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "Validation failed:")
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			fmt.Fprintf(out, "  - %v\n", e)
		}
	} else {
		fmt.Fprintf(out, "  - %v\n", err)
	}
	return errors.New("flow is invalid")
}
