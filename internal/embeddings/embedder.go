// Package embeddings turns chunk and query text into the fixed-dimension
// vectors the vector index stores. Every vector that leaves this package
// through EmbedNormalized has unit L2 length, so inner product downstream is
// cosine similarity; queries and chunks must go through the same embedder or
// the scores are meaningless.
package embeddings

import (
	"context"
	"math"
)

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// Normalize rescales the vector to unit L2 length in place and returns it.
// Zero vectors are returned unchanged.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// EmbedNormalized embeds the texts and L2-normalizes every vector. Both the
// indexing path and the query path go through this function, which is what
// pins the same normalization convention on both sides.
func EmbedNormalized(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	vecs, err := e.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	for i := range vecs {
		Normalize(vecs[i])
	}
	return vecs, nil
}
