package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spachava753/agentgym/internal/scenario"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available training scenarios",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().BoolP("detailed", "d", false, "Show the success criteria of each scenario")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := setupLogging(cmd, ""); err != nil {
		return err
	}
	detailed, _ := cmd.Flags().GetBool("detailed")

	registry := scenario.NewRegistry()
	infos := registry.List()
	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No scenarios available.")
		return nil
	}

	fmt.Fprintf(out, "Available scenarios (%d):\n\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(out, "  %s [%s]\n", info.Name, strings.ToUpper(string(info.Difficulty)))
		fmt.Fprintf(out, "    %s\n", info.Description)

		if detailed {
			s, err := registry.Load(info.Name)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "    Success criteria:")
			printTargets(out, s.SuccessCriteria())
		}
		fmt.Fprintln(out)
	}
	return nil
}

func printTargets(out io.Writer, criteria map[string]float64) {
	for _, name := range slices.Sorted(maps.Keys(criteria)) {
		fmt.Fprintf(out, "      - %s: %s\n", name, formatTarget(criteria[name]))
	}
}

// formatTarget prints fractions as percentages.
func formatTarget(v float64) string {
	if v < 1 {
		return fmt.Sprintf("%.0f%%", v*100)
	}
	return fmt.Sprintf("%g", v)
}

func printCriteria(out io.Writer, results []scenario.CriterionResult) {
	fmt.Fprintln(out, "\nSuccess criteria:")
	for _, r := range results {
		status := "not met"
		if r.Met {
			status = "met"
		}
		if !r.Measured {
			status = "not measured"
		}
		fmt.Fprintf(out, "  %s: %.4g (target %s) %s\n", r.Metric, r.Actual, formatTarget(r.Target), status)
	}
}
