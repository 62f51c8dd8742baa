package server

import (
	"context"
	"fmt"

	"github.com/mwantia/lensdb/internal/agent"
	"github.com/spf13/cobra"

	config "github.com/mwantia/lensdb/internal/config/server"
)

func NewAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Start the LensDB agent",
		Long: `Start the LensDB agent.

The agent loads the lens collection, serves the HTTP API and reloads the
collection whenever the data file changes or the process receives SIGHUP.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load server configuration: %w", err)
			}

			return agent.NewAgent(cfg).Serve(context.Background())
		},
	}

	return cmd
}
