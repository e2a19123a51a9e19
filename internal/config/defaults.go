package config

// ModelPreset describes the default model pairing for a provider.
type ModelPreset struct {
	Model          string
	EmbeddingModel string
}

// modelPresets maps each provider to its default completion and embedding models.
var modelPresets = map[ProviderType]ModelPreset{
	ProviderOpenAI:     {Model: "gpt-4o", EmbeddingModel: "text-embedding-3-small"},
	ProviderOpenRouter: {Model: "openai/gpt-4o", EmbeddingModel: "text-embedding-3-small"},
	ProviderOllama:     {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		DataDir:           "data",
		Port:              8080,
		AllowAllOrigins:   false,
		RecallTopK:        5,
		Temperature:       0.2,
	}
}

// GetPreset returns the default model pairing for the given provider.
// Returns the OpenAI preset if the provider is not recognized.
func GetPreset(provider ProviderType) ModelPreset {
	if preset, ok := modelPresets[provider]; ok {
		return preset
	}
	return modelPresets[ProviderOpenAI]
}
