// Package ocr defines the contract with external OCR engines. The engines
// themselves (image preprocessing, layout analysis, text recognition) live
// outside this codebase; the pipeline only consumes their output shape.
package ocr

import "context"

// Token is a single recognized word with the engine's confidence in it.
type Token struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Page holds per-page recognition output.
type Page struct {
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	WordCount  int     `json:"word_count"`
}

// Result is the unified output of any OCR engine run over one document.
// Confidence is on a 0-1 scale. Tokens may be empty for engines that only
// report page-level text; the cleaner then falls back to FullText.
type Result struct {
	FullText   string  `json:"full_text"`
	Pages      []Page  `json:"pages,omitempty"`
	TotalPages int     `json:"total_pages"`
	Confidence float64 `json:"confidence"`
	WordCount  int     `json:"word_count"`
	Tokens     []Token `json:"tokens,omitempty"`
	EngineName string  `json:"ocr_engine,omitempty"`
}

// Engine is implemented by OCR engine adapters (Tesseract, cloud APIs, ...).
type Engine interface {
	// Recognize runs OCR over the document at path and returns the unified result.
	Recognize(ctx context.Context, path string) (*Result, error)

	// Name returns the engine identifier.
	Name() string
}

// TokensFromText synthesizes a token stream from plain text, assigning the
// given confidence to every word. Used when an engine reports only page text.
func TokensFromText(text string, confidence float64) []Token {
	var tokens []Token
	word := make([]rune, 0, 16)
	flush := func() {
		if len(word) > 0 {
			tokens = append(tokens, Token{Text: string(word), Confidence: confidence})
			word = word[:0]
		}
	}
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			flush()
			continue
		}
		word = append(word, r)
	}
	flush()
	return tokens
}
