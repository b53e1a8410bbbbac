// Package rag wraps the answer-generation model for query refinement and
// grounded answering over retrieved chunks. The model is optional: when it
// is unreachable the agent degrades to passing the top retrieved chunk
// through, so retrieval keeps working on machines with no LLM configured.
package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/arjunrk/govdoc-intel/internal/llm"
	"github.com/arjunrk/govdoc-intel/internal/vectorindex"
)

// Availability is the probed state of the answer-generation model.
type Availability int

const (
	Unprobed Availability = iota
	Available
	Unavailable
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "unprobed"
	}
}

const (
	refineSystemPrompt = "You are a helpful search assistant. Given a user question, " +
		"rephrase it into a concise, search-optimised query that captures " +
		"the key intent and important keywords. Reply ONLY with the refined query."

	answerSystemPrompt = "You are a precise document-analysis assistant. " +
		"Answer the question using ONLY the provided context. " +
		"If the context does not contain enough information, say so clearly. " +
		"Cite source numbers where relevant."

	fallbackSnippetLen = 600
)

// Agent holds the provider and its probed availability. The probe runs once,
// on first use; the result is read thereafter without re-probing.
type Agent struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64

	probeOnce sync.Once
	// state holds an Availability. Atomic because health checks read it
	// while the first chat request is probing.
	state atomic.Int32
}

// New creates an agent over the given provider. A nil provider means the
// model was never configured; the agent is immediately Unavailable.
func New(provider llm.Provider, maxTokens int, temperature float64) *Agent {
	a := &Agent{
		provider:    provider,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
	if provider == nil {
		a.probeOnce.Do(func() { a.state.Store(int32(Unavailable)) })
	}
	return a
}

// Availability returns the current probed state without triggering a probe.
func (a *Agent) Availability() Availability {
	return Availability(a.state.Load())
}

// probe checks the model once with a trivial completion. All generation
// paths call this before using the provider.
func (a *Agent) probe(ctx context.Context) Availability {
	a.probeOnce.Do(func() {
		_, err := a.provider.Complete(ctx, llm.CompletionRequest{
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: "ping"}},
			MaxTokens: 1,
		})
		if err != nil {
			log.Printf("rag: LLM not available, falling back to chunk passthrough: %v", err)
			a.state.Store(int32(Unavailable))
			return
		}
		a.state.Store(int32(Available))
	})
	return Availability(a.state.Load())
}

// RefineQuery rephrases the user query for better semantic retrieval.
// Returns the original query when the model is unavailable or fails.
func (a *Agent) RefineQuery(ctx context.Context, query string) string {
	if a.probe(ctx) != Available {
		return query
	}

	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: refineSystemPrompt},
			{Role: llm.RoleUser, Content: query},
		},
		MaxTokens:   100,
		Temperature: 0.2,
	})
	if err != nil {
		log.Printf("rag: query refinement failed: %v", err)
		return query
	}

	refined := strings.TrimSpace(resp.Content)
	if refined == "" {
		return query
	}
	log.Printf("rag: query refined: %q to %q", query, refined)
	return refined
}

// GenerateAnswer produces an answer grounded in the retrieved chunks, or the
// documented fallback (the top chunk's text, truncated) when the model is
// unavailable or errors out.
func (a *Agent) GenerateAnswer(ctx context.Context, query string, chunks []vectorindex.SearchResult) string {
	if len(chunks) == 0 {
		return "No relevant information found."
	}

	if a.probe(ctx) != Available {
		return "[LLM not available - showing top retrieved chunk]\n\n" + snippet(chunks[0])
	}

	var contextBlock strings.Builder
	for i, r := range chunks {
		fmt.Fprintf(&contextBlock, "[Source %d]: %s\n\n", i+1, r.Chunk.ChunkText)
	}

	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: answerSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf("Context:\n%s\nQuestion: %s", contextBlock.String(), query)},
		},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		log.Printf("rag: answer generation failed: %v", err)
		return fmt.Sprintf("[Error generating answer: %v]\n\n%s", err, snippet(chunks[0]))
	}

	return strings.TrimSpace(resp.Content)
}

func snippet(r vectorindex.SearchResult) string {
	text := r.Chunk.ChunkText
	if len(text) > fallbackSnippetLen {
		text = text[:fallbackSnippetLen]
	}
	return text
}
