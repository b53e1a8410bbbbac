// Package chunker splits normalized document text into overlapping,
// sentence-bounded chunks sized for embedding models. Medium-length chunks
// embed better than whole documents, and the overlap keeps boundary
// sentences fully present in at least one chunk.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/arjunrk/govdoc-intel/internal/extractor"
)

const (
	DefaultTargetWords  = 400
	DefaultOverlapWords = 50
)

// Chunk is one embeddable slice of a document. Embedding is nil until the
// embedding stage attaches it.
type Chunk struct {
	ChunkID    string                      `json:"chunk_id"`
	DocumentID string                      `json:"document_id"`
	ChunkIndex int                         `json:"chunk_index"`
	ChunkText  string                      `json:"chunk_text"`
	ChunkSize  int                         `json:"chunk_size"`
	Metadata   *extractor.DocumentMetadata `json:"metadata,omitempty"`
	Embedding  []float32                   `json:"-"`
}

// Chunker splits text at sentence boundaries into chunks of roughly
// targetWords words with overlapWords of carry-over between consecutive
// chunks. It is stateless across documents.
type Chunker struct {
	targetWords  int
	overlapWords int
}

// New returns a Chunker with the given sizes. Non-positive values fall back
// to the defaults.
func New(targetWords, overlapWords int) *Chunker {
	if targetWords <= 0 {
		targetWords = DefaultTargetWords
	}
	if overlapWords <= 0 {
		overlapWords = DefaultOverlapWords
	}
	return &Chunker{targetWords: targetWords, overlapWords: overlapWords}
}

// ChunkDocument splits text into chunks, attaching a fresh deep copy of the
// document metadata to each so later per-chunk mutation cannot leak across
// chunks. The final undersized chunk is always emitted.
func (c *Chunker) ChunkDocument(docID, text string, meta *extractor.DocumentMetadata) []Chunk {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []Chunk
	var current []string
	currentWords := 0

	emit := func(text string, size int) {
		chunks = append(chunks, Chunk{
			ChunkID:    fmt.Sprintf("%s_chunk_%d", docID, len(chunks)),
			DocumentID: docID,
			ChunkIndex: len(chunks),
			ChunkText:  text,
			ChunkSize:  size,
			Metadata:   cloneMeta(meta),
		})
	}

	i := 0
	for i < len(sentences) {
		sentence := sentences[i]
		wordCount := len(strings.Fields(sentence))

		// An oversized sentence at the start of a chunk becomes its own
		// chunk, with no overlap carried into the next one.
		if len(current) == 0 && wordCount >= c.targetWords {
			emit(sentence, wordCount)
			i++
			continue
		}

		if currentWords+wordCount > c.targetWords && len(current) > 0 {
			emit(strings.Join(current, " "), currentWords)

			// Walk backward collecting overlap sentences. The sentence
			// that crosses the overlap target is still included, so the
			// carry-over never falls short of overlapWords when enough
			// words exist.
			var overlap []string
			overlapWords := 0
			for j := len(current) - 1; j >= 0; j-- {
				overlap = append([]string{current[j]}, overlap...)
				overlapWords += len(strings.Fields(current[j]))
				if overlapWords >= c.overlapWords {
					break
				}
			}
			current = overlap
			currentWords = overlapWords
			// Trim the seed from the front until the triggering sentence
			// fits. Without this a seed of nearly targetWords re-triggers
			// the emit above forever and i never advances.
			for len(current) > 0 && currentWords+wordCount > c.targetWords {
				currentWords -= len(strings.Fields(current[0]))
				current = current[1:]
			}
			// The triggering sentence is re-evaluated against the new,
			// overlap-seeded chunk; i does not advance.
			continue
		}

		current = append(current, sentence)
		currentWords += wordCount
		i++
	}

	if len(current) > 0 {
		emit(strings.Join(current, " "), currentWords)
	}

	return chunks
}

func cloneMeta(meta *extractor.DocumentMetadata) *extractor.DocumentMetadata {
	if meta == nil {
		return nil
	}
	return meta.Clone()
}

// splitSentences splits on sentence punctuation followed by whitespace and
// an uppercase letter. Requiring the uppercase letter keeps decimal numbers
// like 3.14 and abbreviated amounts intact.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j == len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = j
		i = j - 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
