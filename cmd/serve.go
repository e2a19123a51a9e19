package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/envops/incidentd/internal/analysis"
	"github.com/envops/incidentd/internal/reasoning"
	"github.com/envops/incidentd/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the incident analysis HTTP server",
	Long: `Starts the incidentd REST API: memory store/recall, multi-step
reasoning analysis, and the combined memory-plus-reasoning endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
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

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		res := reasoning.NewEngine(provider, cfg.Model, cfg.Temperature)
		combined := analysis.NewEngine(mem, res)

		port := servePort
		if port == 0 {
			port = cfg.Port
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: cfg.AllowAllOrigins,
		}, mem, res, combined)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "incidentd v%s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)
		fmt.Fprintf(os.Stderr, "  Cases in memory: %d\n", store.Count())

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
