package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/envops/incidentd/internal/config"
	"github.com/envops/incidentd/internal/embeddings"
	"github.com/envops/incidentd/internal/llm"
	"github.com/envops/incidentd/internal/memory"
	"github.com/envops/incidentd/internal/registry"
	"github.com/envops/incidentd/internal/semstore"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `incidentd init` to create a config file", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
// Shared by the serve, mcp, seed, and analyze commands.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.GetPreset(provider).EmbeddingModel
	}

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(model, 768, ""), nil
	default:
		// For providers without native embeddings, fall back to OpenAI.
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required (used for embeddings when provider is %s)", provider)
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.Model)
}

// vectorDir is where the semantic store persists its snapshot.
func vectorDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "vectors")
}

// registryPath is the location of the durable case ledger.
func registryPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "incidentd.db")
}

// buildMemoryEngine constructs the case memory: a chromem-backed
// semantic store loaded from disk (when a snapshot exists) plus the
// SQLite case registry.
func buildMemoryEngine(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (*memory.Engine, *semstore.ChromemStore, *registry.DB, error) {
	store, err := semstore.NewChromemStore(embedder)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating semantic store: %w", err)
	}

	if err := store.Load(ctx, vectorDir(cfg)); err != nil {
		// The store may simply be empty if seed has not run yet.
		if verbose {
			fmt.Fprintf(os.Stderr, "Warning: could not load case vectors from %s: %v\n", vectorDir(cfg), err)
		}
	}

	reg, err := registry.Open(registryPath(cfg))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening case registry: %w", err)
	}

	model := cfg.EmbeddingModel
	if model == "" {
		model = embedder.Name()
	}

	mem := memory.NewEngine(store, reg, model, cfg.RecallTopK)
	return mem, store, reg, nil
}
