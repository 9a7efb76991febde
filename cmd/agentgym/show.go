package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/spachava753/agentgym/internal/result"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <result.json>",
		Short: "Show a saved training result",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := setupLogging(cmd, ""); err != nil {
		return err
	}

	res, err := result.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	m := res.Metrics
	fmt.Fprintln(out, res)
	fmt.Fprintf(out, "  Config: %s\n", res.Config)
	fmt.Fprintf(out, "  Trained model: %s\n", res.TrainedModelPath)
	fmt.Fprintf(out, "  Timestamp: %s\n", res.Timestamp)
	fmt.Fprintf(out, "  Version: %s\n", res.Version)
	fmt.Fprintf(out, "  Tool reliability: %.1f%%\n", m.ToolReliability*100)
	fmt.Fprintf(out, "  Average tokens: %.0f\n", m.AvgTokensUsed)
	fmt.Fprintf(out, "  Average response time: %.1fs\n", m.AvgResponseTime)
	fmt.Fprintf(out, "  Cost reduction: %.1f%%\n", m.CostReduction*100)
	fmt.Fprintf(out, "  Final reward: %.4f\n", m.FinalReward)
	if m.ConvergenceEpisode != nil {
		fmt.Fprintf(out, "  Convergence episode: %d\n", *m.ConvergenceEpisode)
	}
	if len(res.Artifacts) > 0 {
		fmt.Fprintf(out, "  Artifacts: %v\n", slices.Sorted(maps.Keys(res.Artifacts)))
	}
	return nil
}
