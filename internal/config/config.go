package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the conventional config file name in the working directory.
const DefaultPath = ".govdoc.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (GOVDOC_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: GOVDOC_PORT -> port, etc.
	if err := k.Load(env.Provider("GOVDOC_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "GOVDOC_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
	ProviderNone:   true,
}

// validEngines is the set of recognized OCR engine values.
var validEngines = map[OCREngineType]bool{
	EngineRemote:  true,
	EngineSidecar: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive")
	}

	if !validEngines[c.OCREngine] {
		return fmt.Errorf("invalid ocr_engine %q: must be one of remote, sidecar", c.OCREngine)
	}
	if c.OCREngine == EngineRemote && c.OCREndpoint == "" {
		return fmt.Errorf("ocr_endpoint is required when ocr_engine is remote")
	}

	if c.CleanConfidenceThreshold < 0 || c.CleanConfidenceThreshold > 1 {
		return fmt.Errorf("clean_confidence_threshold must be between 0 and 1")
	}

	if !validProviders[c.EmbeddingProvider] || c.EmbeddingProvider == ProviderNone {
		return fmt.Errorf("invalid embedding_provider %q: must be one of openai, ollama", c.EmbeddingProvider)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("embedding_dimension must be positive")
	}

	if !validProviders[c.LLMProvider] {
		return fmt.Errorf("invalid llm_provider %q: must be one of openai, ollama, none", c.LLMProvider)
	}
	if c.LLMProvider != ProviderNone && c.LLMModel == "" {
		return fmt.Errorf("llm_model is required")
	}
	if c.LLMMaxTokens < 0 {
		return fmt.Errorf("llm_max_tokens must be non-negative")
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be non-negative and smaller than chunk_size")
	}

	if c.TopKResults <= 0 {
		return fmt.Errorf("top_k_results must be positive")
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be between 0 and 1")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	if provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return ""
}
