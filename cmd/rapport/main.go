// Rapport: relational-compatibility assessment server.
//
// Rapport administers five short psychometric questionnaires, tracks a
// structured interview, grades the evidence behind each answer and builds
// the prompts a scoring model needs. It runs as an MCP server over stdio
// or as a stateless HTTP API.
//
// Usage:
//
//	rapport serve                         # Start MCP server (stdio transport)
//	rapport http                          # Start the HTTP API
//	rapport score brs answers.json        # Score one instrument offline
//	rapport version
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/rapport/internal/config"
	"github.com/HendryAvila/rapport/internal/logging"
	rapportserver "github.com/HendryAvila/rapport/internal/server"
)

func main() {
	// A missing .env is normal; anything else is worth reporting.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: reading .env: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:          "rapport",
		Short:        "Relational-compatibility assessment server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		newServeCmd(flags),
		newHTTPCmd(flags),
		newScoreCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the process logger.
func setup(flags *globalFlags) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rapport v%s\n", rapportserver.Version)
		},
	}
}
