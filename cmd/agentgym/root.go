package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spachava753/agentgym/internal/models"
)

const logLevelEnv = "AGENTGYM_LOG_LEVEL"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentgym",
		Short: "Train AI agents with reinforcement learning",
		Long: `agentgym trains tool-using agents against domain scenarios.

Quick start:
  agentgym train customer_support --episodes 100
  agentgym list`,
		Version:       models.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default info, or $"+logLevelEnv+")")

	root.AddCommand(newTrainCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newShowCmd())
	return root
}

// setupLogging installs the default logger. The flag wins over the
// environment, which wins over fallback.
func setupLogging(cmd *cobra.Command, fallback string) error {
	level := fallback
	if v := os.Getenv(logLevelEnv); v != "" {
		level = v
	}
	if cmd.Flags().Changed("log-level") {
		level, _ = cmd.Flags().GetString("log-level")
	}
	if level == "" {
		level = "info"
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
	return nil
}
