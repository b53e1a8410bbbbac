package rag

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/arjunrk/govdoc-intel/internal/llm"
	"github.com/arjunrk/govdoc-intel/internal/vectorindex"
)

type scriptedProvider struct {
	failProbe bool
	responses []string
	calls     int
}

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.calls++
	if p.failProbe {
		return nil, errors.New("connection refused")
	}
	content := "ok"
	if len(p.responses) > 0 {
		content = p.responses[0]
		p.responses = p.responses[1:]
	}
	return &llm.CompletionResponse{Content: content}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

func result(id, text string) vectorindex.SearchResult {
	return vectorindex.SearchResult{
		Chunk:           vectorindex.Record{ChunkID: id, ChunkText: text},
		SimilarityScore: 0.9,
	}
}

func TestProbeRunsOnce(t *testing.T) {
	p := &scriptedProvider{failProbe: true}
	a := New(p, 256, 0.3)

	if a.Availability() != Unprobed {
		t.Errorf("initial state = %v, want unprobed", a.Availability())
	}

	ctx := context.Background()
	a.RefineQuery(ctx, "q")
	a.RefineQuery(ctx, "q")
	a.GenerateAnswer(ctx, "q", []vectorindex.SearchResult{result("c", "text")})

	if a.Availability() != Unavailable {
		t.Errorf("state = %v, want unavailable", a.Availability())
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1 (probe only)", p.calls)
	}
}

func TestNilProviderImmediatelyUnavailable(t *testing.T) {
	a := New(nil, 256, 0.3)
	if a.Availability() != Unavailable {
		t.Errorf("state = %v, want unavailable", a.Availability())
	}
	if got := a.RefineQuery(context.Background(), "original"); got != "original" {
		t.Errorf("RefineQuery = %q, want original query back", got)
	}
}

func TestRefineQuery(t *testing.T) {
	p := &scriptedProvider{responses: []string{"ok", "  expenditure totals march 2024  "}}
	a := New(p, 256, 0.3)

	got := a.RefineQuery(context.Background(), "how much was spent in march")
	if got != "expenditure totals march 2024" {
		t.Errorf("RefineQuery = %q", got)
	}
}

func TestRefineEmptyResponseKeepsOriginal(t *testing.T) {
	p := &scriptedProvider{responses: []string{"ok", "   "}}
	a := New(p, 256, 0.3)

	if got := a.RefineQuery(context.Background(), "original"); got != "original" {
		t.Errorf("RefineQuery = %q, want original", got)
	}
}

func TestGenerateAnswerFallback(t *testing.T) {
	long := strings.Repeat("x", 700)
	a := New(&scriptedProvider{failProbe: true}, 256, 0.3)

	answer := a.GenerateAnswer(context.Background(), "q", []vectorindex.SearchResult{result("c", long)})

	if !strings.Contains(answer, "[LLM not available") {
		t.Errorf("fallback answer missing marker: %q", answer)
	}
	if !strings.Contains(answer, strings.Repeat("x", 600)) || strings.Contains(answer, strings.Repeat("x", 601)) {
		t.Error("fallback should truncate the top chunk to 600 characters")
	}
}

func TestGenerateAnswerNoChunks(t *testing.T) {
	a := New(&scriptedProvider{}, 256, 0.3)
	if got := a.GenerateAnswer(context.Background(), "q", nil); got != "No relevant information found." {
		t.Errorf("GenerateAnswer = %q", got)
	}
}

func TestGenerateAnswerGrounded(t *testing.T) {
	p := &scriptedProvider{responses: []string{"ok", "The grand total was INR 100000 [Source 1]."}}
	a := New(p, 256, 0.3)

	chunks := []vectorindex.SearchResult{
		result("c1", "GRAND TOTAL INR 100000"),
		result("c2", "opening balance"),
	}
	answer := a.GenerateAnswer(context.Background(), "what was the total", chunks)

	if !strings.Contains(answer, "INR 100000") {
		t.Errorf("answer = %q", answer)
	}
	if a.Availability() != Available {
		t.Errorf("state = %v, want available", a.Availability())
	}
}

func TestAvailabilityDuringConcurrentProbe(t *testing.T) {
	p := &scriptedProvider{}
	a := New(p, 256, 0.3)

	// Health checks read Availability while the first request probes.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch a.Availability() {
				case Unprobed, Available, Unavailable:
				default:
					t.Error("invalid availability value")
					return
				}
			}
		}()
	}
	a.RefineQuery(context.Background(), "grand total for March")
	wg.Wait()

	if got := a.Availability(); got != Available {
		t.Errorf("availability after probe: got %v, want Available", got)
	}
}
