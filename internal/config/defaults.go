package config

import "path/filepath"

// DefaultCORSOrigins covers the usual local frontend dev servers.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:          "0.0.0.0",
		Port:          8000,
		CORSOrigins:   DefaultCORSOrigins,
		MaxFileSizeMB: 20,

		OCREngine: EngineSidecar,

		CleanConfidenceThreshold: 0.8,

		EmbeddingProvider:  ProviderOpenAI,
		EmbeddingModel:     "text-embedding-3-small",
		EmbeddingDimension: 384,

		LLMProvider:    ProviderOpenAI,
		LLMModel:       "gpt-4o-mini",
		LLMTemperature: 0.3,
		LLMMaxTokens:   512,

		ChunkSize:    400,
		ChunkOverlap: 50,

		TopKResults:         5,
		SimilarityThreshold: 0.3,

		DataDir:      "data",
		UploadDir:    "uploads",
		VectorDBDir:  "vector_db",
		DatabasePath: filepath.Join("data", "govdoc.db"),
	}
}
