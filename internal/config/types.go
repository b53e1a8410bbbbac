package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	// ProviderNone disables the answering layer; retrieval still works
	// and queries fall back to raw chunk snippets.
	ProviderNone ProviderType = "none"
)

// OCREngineType identifies how the pipeline obtains OCR output for a file.
type OCREngineType string

const (
	// EngineRemote posts the document to an external OCR HTTP service.
	EngineRemote OCREngineType = "remote"
	// EngineSidecar reads a precomputed <file>.ocr.json next to the document.
	EngineSidecar OCREngineType = "sidecar"
)

// Config is the top-level govdoc configuration, corresponding to .govdoc.yml.
type Config struct {
	// HTTP server.
	Host          string   `yaml:"host" koanf:"host"`
	Port          int      `yaml:"port" koanf:"port"`
	CORSOrigins   []string `yaml:"cors_origins" koanf:"cors_origins"`
	MaxFileSizeMB int      `yaml:"max_file_size_mb" koanf:"max_file_size_mb"`

	// OCR input.
	OCREngine   OCREngineType `yaml:"ocr_engine" koanf:"ocr_engine"`
	OCREndpoint string        `yaml:"ocr_endpoint" koanf:"ocr_endpoint"`

	// Text cleaning. Words recognized below this confidence get the
	// dictionary spell-correction pass; higher-confidence words are
	// kept as recognized.
	CleanConfidenceThreshold float64 `yaml:"clean_confidence_threshold" koanf:"clean_confidence_threshold"`

	// Embeddings.
	EmbeddingProvider  ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel     string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimension int          `yaml:"embedding_dimension" koanf:"embedding_dimension"`

	// Answer generation.
	LLMProvider    ProviderType `yaml:"llm_provider" koanf:"llm_provider"`
	LLMModel       string       `yaml:"llm_model" koanf:"llm_model"`
	LLMTemperature float64      `yaml:"llm_temperature" koanf:"llm_temperature"`
	LLMMaxTokens   int          `yaml:"llm_max_tokens" koanf:"llm_max_tokens"`

	// Chunking, in words.
	ChunkSize    int `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" koanf:"chunk_overlap"`

	// Retrieval.
	TopKResults         int     `yaml:"top_k_results" koanf:"top_k_results"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" koanf:"similarity_threshold"`

	// Storage paths.
	DataDir      string `yaml:"data_dir" koanf:"data_dir"`
	UploadDir    string `yaml:"upload_dir" koanf:"upload_dir"`
	VectorDBDir  string `yaml:"vector_db_dir" koanf:"vector_db_dir"`
	DatabasePath string `yaml:"database_path" koanf:"database_path"`
}
