package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arjunrk/govdoc-intel/internal/chunker"
	"github.com/arjunrk/govdoc-intel/internal/cleaner"
	"github.com/arjunrk/govdoc-intel/internal/config"
	"github.com/arjunrk/govdoc-intel/internal/db"
	"github.com/arjunrk/govdoc-intel/internal/embeddings"
	"github.com/arjunrk/govdoc-intel/internal/extractions"
	"github.com/arjunrk/govdoc-intel/internal/llm"
	"github.com/arjunrk/govdoc-intel/internal/normalizer"
	"github.com/arjunrk/govdoc-intel/internal/ocr"
	"github.com/arjunrk/govdoc-intel/internal/pipeline"
	"github.com/arjunrk/govdoc-intel/internal/rag"
	"github.com/arjunrk/govdoc-intel/internal/retrieval"
	"github.com/arjunrk/govdoc-intel/internal/vectorindex"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `govdoc init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newEmbedder creates an embeddings.Embedder based on config.
func newEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel), cfg.EmbeddingDimension), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.EmbeddingDimension, os.Getenv("OLLAMA_HOST")), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.EmbeddingProvider)
	}
}

// newLLMProvider creates the answering provider, or nil when answering is
// disabled. A nil provider degrades chat to raw chunk passthrough.
func newLLMProvider(cfg *config.Config) (llm.Provider, error) {
	if cfg.LLMProvider == config.ProviderNone {
		return nil, nil
	}
	return llm.NewProvider(string(cfg.LLMProvider), cfg.LLMModel)
}

// newOCREngine creates the configured OCR engine.
func newOCREngine(cfg *config.Config) ocr.Engine {
	if cfg.OCREngine == config.EngineRemote {
		return ocr.NewRemoteEngine(cfg.OCREndpoint)
	}
	return ocr.NewSidecarEngine()
}

// components bundles everything the serve, ingest, and query commands share.
type components struct {
	cfg       *config.Config
	db        *db.DB
	store     *extractions.Store
	engine    ocr.Engine
	index     *vectorindex.Index
	pipe      *pipeline.Pipeline
	retriever *retrieval.Service
	agent     *rag.Agent
}

// openComponents builds the full stack from config. Callers must Close.
func openComponents(cfg *config.Config) (*components, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	index, err := vectorindex.New(filepath.Join(cfg.DataDir, cfg.VectorDBDir), cfg.EmbeddingDimension)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("opening vector index: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		database.Close()
		return nil, err
	}

	provider, err := newLLMProvider(cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	pipe := pipeline.New(
		cleaner.New(cfg.CleanConfidenceThreshold),
		normalizer.New(),
		chunker.New(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
		index,
	)

	return &components{
		cfg:       cfg,
		db:        database,
		store:     extractions.NewStore(database),
		engine:    newOCREngine(cfg),
		index:     index,
		pipe:      pipe,
		retriever: retrieval.New(embedder, index, cfg.TopKResults, cfg.SimilarityThreshold),
		agent:     rag.New(provider, cfg.LLMMaxTokens, cfg.LLMTemperature),
	}, nil
}

func (c *components) Close() {
	if c.db != nil {
		c.db.Close()
	}
}
