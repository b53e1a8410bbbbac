// Package retrieval encodes user queries and fetches the closest chunks
// from the vector index, discarding weak matches.
package retrieval

import (
	"context"
	"fmt"
	"log"

	"github.com/arjunrk/govdoc-intel/internal/embeddings"
	"github.com/arjunrk/govdoc-intel/internal/vectorindex"
)

const (
	DefaultTopK      = 5
	DefaultThreshold = 0.3
)

// Searcher is the slice of the vector index retrieval depends on.
type Searcher interface {
	Search(query []float32, topK int) ([]vectorindex.SearchResult, error)
}

// Service encodes queries with the same embedder and normalization
// convention used at indexing time. Using a different embedder here would
// silently produce meaningless scores, so the embedder is fixed at
// construction.
type Service struct {
	embedder  embeddings.Embedder
	index     Searcher
	topK      int
	threshold float64
}

// New creates a retrieval service. Non-positive topK and threshold fall back
// to the defaults.
func New(embedder embeddings.Embedder, index Searcher, topK int, threshold float64) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{
		embedder:  embedder,
		index:     index,
		topK:      topK,
		threshold: threshold,
	}
}

// Retrieve encodes the query, searches the index, and returns the results
// scoring at or above the similarity threshold, preserving the index's
// descending order.
func (s *Service) Retrieve(ctx context.Context, query string) ([]vectorindex.SearchResult, error) {
	vecs, err := embeddings.EmbedNormalized(ctx, s.embedder, []string{query})
	if err != nil {
		return nil, fmt.Errorf("retrieval: embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("retrieval: embedder returned no vector for query")
	}

	results, err := s.index.Search(vecs[0], s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval: search: %w", err)
	}

	filtered := results[:0:0]
	for _, r := range results {
		if r.SimilarityScore >= s.threshold {
			filtered = append(filtered, r)
		}
	}

	log.Printf("retrieval: %d / %d chunks above threshold %.2f", len(filtered), len(results), s.threshold)
	return filtered, nil
}
