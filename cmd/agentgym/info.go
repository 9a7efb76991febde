package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spachava753/agentgym/internal/models"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show information about agentgym",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "AgentGym v%s\n\n", models.Version)
			fmt.Fprintln(out, "Trains tool-using agents with trajectory-level reinforcement learning.")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Highlights:")
			fmt.Fprintln(out, "  - outcome rewards broadcast to every step of an episode")
			fmt.Fprintln(out, "  - only tool and parameter selection are trained")
			fmt.Fprintln(out, "  - policies target LangChain, AutoGen or CrewAI")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Quick start:")
			fmt.Fprintln(out, "  agentgym train customer_support --episodes 100")
			fmt.Fprintln(out, "  agentgym list")
			return nil
		},
	}
}
