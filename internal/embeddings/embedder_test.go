package embeddings

import (
	"context"
	"math"
	"testing"
)

type staticEmbedder struct {
	vecs [][]float32
}

func (s *staticEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, len(s.vecs[i]))
		copy(v, s.vecs[i])
		out[i] = v
	}
	return out, nil
}

func (s *staticEmbedder) Dimensions() int { return len(s.vecs[0]) }
func (s *staticEmbedder) Name() string    { return "static" }

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("Normalize(3,4) = %v, want (0.6, 0.8)", v)
	}

	zero := Normalize([]float32{0, 0, 0})
	for _, x := range zero {
		if x != 0 {
			t.Errorf("zero vector changed: %v", zero)
		}
	}
}

func TestEmbedNormalizedUnitLength(t *testing.T) {
	e := &staticEmbedder{vecs: [][]float32{{3, 4}, {5, 12}}}

	vecs, err := EmbedNormalized(context.Background(), e, []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedNormalized: %v", err)
	}

	for i, v := range vecs {
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("vector %d has squared length %v, want 1", i, sum)
		}
	}
}
