package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/envops/incidentd/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the
incident memory (case search and pattern statistics) to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		mem, store, reg, err := buildMemoryEngine(cmd.Context(), cfg, embedder)
		if err != nil {
			return err
		}
		defer reg.Close()

		if store.Count() == 0 {
			fmt.Fprintln(os.Stderr, "Warning: case memory is empty. Run `incidentd seed` to load historical cases.")
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "incidentd MCP server started on stdio (cases=%d)\n", store.Count())

		srv := mcpserver.NewServer(mem)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
