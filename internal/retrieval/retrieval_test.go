package retrieval

import (
	"context"
	"testing"

	"github.com/arjunrk/govdoc-intel/internal/vectorindex"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}
func (fakeEmbedder) Dimensions() int { return 2 }
func (fakeEmbedder) Name() string    { return "fake" }

type fakeSearcher struct {
	results []vectorindex.SearchResult
	gotTopK int
}

func (f *fakeSearcher) Search(query []float32, topK int) ([]vectorindex.SearchResult, error) {
	f.gotTopK = topK
	return f.results, nil
}

func scored(id string, score float64) vectorindex.SearchResult {
	return vectorindex.SearchResult{
		Chunk:           vectorindex.Record{ChunkID: id},
		Distance:        score,
		SimilarityScore: score,
	}
}

func TestThresholdFilter(t *testing.T) {
	idx := &fakeSearcher{results: []vectorindex.SearchResult{
		scored("a", 0.9),
		scored("b", 0.31),
		scored("c", 0.25),
	}}

	svc := New(fakeEmbedder{}, idx, 5, 0.3)
	results, err := svc.Retrieve(context.Background(), "total expenditure march")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (0.25 excluded)", len(results))
	}
	if results[0].Chunk.ChunkID != "a" || results[1].Chunk.ChunkID != "b" {
		t.Errorf("order = %s, %s; want a, b", results[0].Chunk.ChunkID, results[1].Chunk.ChunkID)
	}
	if idx.gotTopK != 5 {
		t.Errorf("topK passed to index = %d, want 5", idx.gotTopK)
	}
}

func TestExactThresholdIncluded(t *testing.T) {
	idx := &fakeSearcher{results: []vectorindex.SearchResult{scored("edge", 0.3)}}

	svc := New(fakeEmbedder{}, idx, 5, 0.3)
	results, err := svc.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("score exactly at threshold should be included, got %d results", len(results))
	}
}

func TestNoResults(t *testing.T) {
	idx := &fakeSearcher{}

	svc := New(fakeEmbedder{}, idx, 0, 0)
	results, err := svc.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results from empty index", len(results))
	}
	if idx.gotTopK != DefaultTopK {
		t.Errorf("default topK = %d, want %d", idx.gotTopK, DefaultTopK)
	}
}
