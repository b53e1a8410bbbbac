package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// modelPresets maps each provider to its default chat and embedding models.
var modelPresets = map[ProviderType]struct {
	Model          string
	EmbeddingModel string
}{
	ProviderOpenAI: {Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"},
	ProviderOllama: {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .govdoc.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to govdoc! Let's configure your document pipeline.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. OCR source.
	enginePrompt := promptui.Select{
		Label: "How should OCR output be obtained",
		Items: []string{
			"sidecar: read precomputed <file>.ocr.json next to each document",
			"remote:  POST documents to an external OCR HTTP service",
		},
	}
	engineIdx, _, err := enginePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("ocr engine selection: %w", err)
	}
	if engineIdx == 1 {
		cfg.OCREngine = EngineRemote
		endpointPrompt := promptui.Prompt{
			Label:   "OCR service endpoint URL",
			Default: "http://localhost:9090/ocr",
		}
		endpoint, err := endpointPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("ocr endpoint: %w", err)
		}
		cfg.OCREndpoint = endpoint
	} else {
		cfg.OCREngine = EngineSidecar
	}

	// 2. Embedding provider.
	embedPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"openai", "ollama"},
	}
	_, embedStr, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding provider selection: %w", err)
	}
	cfg.EmbeddingProvider = ProviderType(embedStr)
	cfg.EmbeddingModel = modelPresets[cfg.EmbeddingProvider].EmbeddingModel

	// 3. LLM provider for answer generation.
	llmPrompt := promptui.Select{
		Label: "Select LLM provider for answering queries",
		Items: []string{"openai", "ollama", "none (retrieval only)"},
	}
	llmIdx, llmStr, err := llmPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("llm provider selection: %w", err)
	}
	if llmIdx == 2 {
		cfg.LLMProvider = ProviderNone
		cfg.LLMModel = ""
	} else {
		cfg.LLMProvider = ProviderType(llmStr)
		cfg.LLMModel = modelPresets[cfg.LLMProvider].Model
	}

	// 4. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (database and vector index)",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	// 5. CORS origins for the HTTP API.
	corsPrompt := promptui.Prompt{
		Label:   "Allowed CORS origins (comma-separated)",
		Default: strings.Join(DefaultCORSOrigins, ","),
	}
	corsStr, err := corsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cors origins: %w", err)
	}
	cfg.CORSOrigins = splitAndTrim(corsStr)

	// Check for API key.
	for _, p := range []ProviderType{cfg.EmbeddingProvider, cfg.LLMProvider} {
		envVar := APIKeyEnvVar(p)
		if envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running govdoc serve.\n", envVar)
			break
		}
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
