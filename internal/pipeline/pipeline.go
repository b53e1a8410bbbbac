// Package pipeline wires the document processing stages end to end:
// validation gate, token cleaning, normalization, structured extraction,
// chunking, embedding, and vector indexing. Rejected documents stop at the
// gate and nothing downstream runs or is stored.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/arjunrk/govdoc-intel/internal/chunker"
	"github.com/arjunrk/govdoc-intel/internal/cleaner"
	"github.com/arjunrk/govdoc-intel/internal/embeddings"
	"github.com/arjunrk/govdoc-intel/internal/extractor"
	"github.com/arjunrk/govdoc-intel/internal/gate"
	"github.com/arjunrk/govdoc-intel/internal/normalizer"
	"github.com/arjunrk/govdoc-intel/internal/ocr"
)

// Indexer is the slice of the vector index the pipeline writes to.
type Indexer interface {
	Add(chunks []chunker.Chunk) error
}

// Result summarizes one document's trip through the pipeline. When the gate
// rejects, ChunksCreated is zero and Metadata is nil.
type Result struct {
	DocumentID     string                      `json:"document_id"`
	OCREngine      string                      `json:"ocr_engine"`
	PagesProcessed int                         `json:"pages_processed"`
	Confidence     float64                     `json:"confidence"`
	WordCount      int                         `json:"word_count"`
	ChunksCreated  int                         `json:"chunks_created"`
	Validation     gate.Result                 `json:"validation"`
	Metadata       *extractor.DocumentMetadata `json:"structured_fields,omitempty"`
	DisplayText    string                      `json:"-"`
	SearchText     string                      `json:"-"`
	ProcessingMS   int64                       `json:"processing_time_ms"`
}

// Rejected reports whether the document stopped at the gate.
func (r *Result) Rejected() bool {
	return r.Validation.Recommendation == gate.Reject
}

// Pipeline holds the stage instances. All text stages are pure and the
// pipeline itself keeps no per-document state, so one Pipeline serves
// concurrent documents; the vector index does its own locking.
type Pipeline struct {
	cleaner    *cleaner.Cleaner
	normalizer *normalizer.Normalizer
	chunker    *chunker.Chunker
	embedder   embeddings.Embedder
	index      Indexer
}

func New(c *cleaner.Cleaner, n *normalizer.Normalizer, ch *chunker.Chunker, e embeddings.Embedder, idx Indexer) *Pipeline {
	return &Pipeline{
		cleaner:    c,
		normalizer: n,
		chunker:    ch,
		embedder:   e,
		index:      idx,
	}
}

// Process runs one OCR result through the full pipeline. The gate is
// evaluated twice: a cheap pre-check on confidence and word count alone,
// which can reject before any text stage runs, and a full check with the
// extracted fields that becomes the recorded validation. Documents the full
// check marks for review are still indexed; only reject stores nothing.
func (p *Pipeline) Process(ctx context.Context, docID string, res ocr.Result) (*Result, error) {
	start := time.Now()

	out := &Result{
		DocumentID:     docID,
		OCREngine:      res.EngineName,
		PagesProcessed: res.TotalPages,
		Confidence:     res.Confidence,
		WordCount:      res.WordCount,
	}

	out.Validation = gate.Check(res.Confidence, res.WordCount, nil)
	if out.Rejected() {
		log.Printf("pipeline: document %s rejected: %v", docID, out.Validation.Warnings)
		out.ProcessingMS = time.Since(start).Milliseconds()
		return out, nil
	}

	tokens := res.Tokens
	if len(tokens) == 0 {
		tokens = ocr.TokensFromText(res.FullText, res.Confidence)
	}
	cleaned := p.cleaner.Clean(tokens)
	if cleaned == "" {
		return nil, fmt.Errorf("pipeline: document %s: cleaning produced empty text", docID)
	}

	norm := p.normalizer.Normalize(cleaned)
	out.DisplayText = norm.DisplayText
	out.SearchText = norm.SearchText

	out.Metadata = extractor.Extract(norm.DisplayText)
	out.Validation = gate.Check(res.Confidence, res.WordCount, out.Metadata)
	if out.Rejected() {
		log.Printf("pipeline: document %s rejected after extraction: %v", docID, out.Validation.Warnings)
		out.ProcessingMS = time.Since(start).Milliseconds()
		return out, nil
	}

	chunks := p.chunker.ChunkDocument(docID, norm.SearchText, out.Metadata)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("pipeline: document %s: chunking produced no chunks", docID)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.ChunkText
	}
	vecs, err := embeddings.EmbedNormalized(ctx, p.embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("pipeline: document %s: embed chunks: %w", docID, err)
	}
	if len(vecs) != len(chunks) {
		return nil, fmt.Errorf("pipeline: document %s: got %d embeddings for %d chunks", docID, len(vecs), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vecs[i]
	}

	if err := p.index.Add(chunks); err != nil {
		return nil, fmt.Errorf("pipeline: document %s: index chunks: %w", docID, err)
	}

	out.ChunksCreated = len(chunks)
	out.ProcessingMS = time.Since(start).Milliseconds()
	log.Printf("pipeline: document %s processed in %d ms (%d chunks, %s)",
		docID, out.ProcessingMS, out.ChunksCreated, out.Validation.Recommendation)
	return out, nil
}
