package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arjunrk/govdoc-intel/internal/chunker"
	"github.com/arjunrk/govdoc-intel/internal/cleaner"
	"github.com/arjunrk/govdoc-intel/internal/gate"
	"github.com/arjunrk/govdoc-intel/internal/normalizer"
	"github.com/arjunrk/govdoc-intel/internal/ocr"
)

type hashEmbedder struct {
	err error
}

func (h hashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if h.err != nil {
		return nil, h.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t) % 7), 1, float32(len(t) % 3)}
	}
	return out, nil
}
func (h hashEmbedder) Dimensions() int { return 3 }
func (h hashEmbedder) Name() string    { return "hash" }

type captureIndexer struct {
	added []chunker.Chunk
	err   error
}

func (c *captureIndexer) Add(chunks []chunker.Chunk) error {
	if c.err != nil {
		return c.err
	}
	c.added = append(c.added, chunks...)
	return nil
}

func newPipeline(t *testing.T, emb hashEmbedder, idx *captureIndexer) *Pipeline {
	t.Helper()
	return New(
		cleaner.New(0.8),
		normalizer.New(),
		chunker.New(40, 10),
		emb,
		idx,
	)
}

const sampleText = "FORM-80 MONTHLY ACCOUNT for the division office records. " +
	"The GRAND TOTAL 1,82,68,500.00 was recorded for the month. " +
	"The opening balance and closing balance figures were verified in full. " +
	"The Executive Engineer signed the account during the fourth month. " +
	"Receipts and expenditure were reconciled against the schedule of settlement."

func sampleResult(conf float64) ocr.Result {
	words := len(strings.Fields(sampleText))
	return ocr.Result{
		FullText:   sampleText,
		Confidence: conf,
		WordCount:  words,
		TotalPages: 2,
		EngineName: "tesseract",
		Tokens:     ocr.TokensFromText(sampleText, conf),
	}
}

func TestProcessStoresDocument(t *testing.T) {
	idx := &captureIndexer{}
	p := newPipeline(t, hashEmbedder{}, idx)

	res, err := p.Process(context.Background(), "doc-1", sampleResult(0.9))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.Rejected() {
		t.Fatalf("document rejected: %+v", res.Validation)
	}
	if res.ChunksCreated == 0 || len(idx.added) != res.ChunksCreated {
		t.Fatalf("ChunksCreated = %d, indexed = %d", res.ChunksCreated, len(idx.added))
	}
	for _, c := range idx.added {
		if c.Embedding == nil {
			t.Errorf("chunk %s indexed without embedding", c.ChunkID)
		}
		if c.DocumentID != "doc-1" {
			t.Errorf("chunk %s has DocumentID %q", c.ChunkID, c.DocumentID)
		}
		if c.Metadata == nil {
			t.Errorf("chunk %s has no metadata", c.ChunkID)
		}
	}

	if res.Metadata == nil || res.Metadata.GrandTotal == nil {
		t.Fatal("structured fields missing from result")
	}
	// Thousands separators are removed by normalization before extraction.
	if *res.Metadata.GrandTotal != "18268500.00" {
		t.Errorf("GrandTotal = %q", *res.Metadata.GrandTotal)
	}
	if res.Metadata.DocumentType != "Monthly Account (Form-80)" {
		t.Errorf("DocumentType = %q", res.Metadata.DocumentType)
	}
	if res.Validation.Recommendation != gate.Store {
		t.Errorf("Recommendation = %q, want store", res.Validation.Recommendation)
	}
	if res.SearchText == "" || res.SearchText != strings.ToLower(res.SearchText) {
		t.Error("SearchText should be the lowercased normalized text")
	}
}

func TestProcessRejectsBeforeTextStages(t *testing.T) {
	idx := &captureIndexer{}
	p := newPipeline(t, hashEmbedder{}, idx)

	in := sampleResult(0.2)
	in.WordCount = 3
	res, err := p.Process(context.Background(), "doc-2", in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if !res.Rejected() {
		t.Fatalf("Recommendation = %q, want reject", res.Validation.Recommendation)
	}
	if len(idx.added) != 0 {
		t.Errorf("%d chunks indexed for a rejected document", len(idx.added))
	}
	if res.Metadata != nil || res.DisplayText != "" {
		t.Error("rejected document should not reach extraction")
	}
}

func TestProcessEmbedErrorWrapped(t *testing.T) {
	idx := &captureIndexer{}
	p := newPipeline(t, hashEmbedder{err: errors.New("model offline")}, idx)

	_, err := p.Process(context.Background(), "doc-3", sampleResult(0.9))
	if err == nil {
		t.Fatal("Process succeeded with failing embedder")
	}
	if !strings.Contains(err.Error(), "embed chunks") || !strings.Contains(err.Error(), "model offline") {
		t.Errorf("err = %v, want wrapped embed failure", err)
	}
	if len(idx.added) != 0 {
		t.Error("chunks indexed despite embed failure")
	}
}

func TestProcessIndexErrorWrapped(t *testing.T) {
	idx := &captureIndexer{err: errors.New("disk full")}
	p := newPipeline(t, hashEmbedder{}, idx)

	_, err := p.Process(context.Background(), "doc-4", sampleResult(0.9))
	if err == nil {
		t.Fatal("Process succeeded with failing indexer")
	}
	if !strings.Contains(err.Error(), "index chunks") {
		t.Errorf("err = %v, want wrapped index failure", err)
	}
}
