// Package main provides the jarvis CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/voxlab/jarvis/cli"
)

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "jarvis",
		Short: "Voice-first assistant request dispatch core",
		Long: `JARVIS routes requests through a layered fast path (precomputed replies,
exact cache, semantic cache) before consulting specialist agents in
parallel and synthesizing their insights with the best available LLM
provider.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", ".jarvis/jarvis.db", "Database path for session history")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	// Add commands
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(providersCmd())
	rootCmd.AddCommand(sessionsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() cli.Options {
	opts := cli.DefaultOptions()
	opts.ConfigPath = configPath
	opts.DBPath = dbPath
	opts.Verbose = verbose
	return opts
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [request]",
		Short: "Process a single request and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ask(context.Background(), args[0], nil, options())
		},
	}
}

func chatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Long: `Start an interactive session. With --session, every exchange is
recorded so the session can be reviewed later via 'jarvis sessions'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(context.Background(), sessionID, options())
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID for exchange history")

	return cmd
}

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List specialist agents and their routing keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListAgents(options())
		},
	}
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List provider slots with availability and stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListProviders(context.Background(), options())
		},
	}
}

func sessionsCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions, or show one session's exchanges",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Sessions(context.Background(), sessionID, options())
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Show exchanges for this session")

	return cmd
}
