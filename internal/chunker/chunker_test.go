package chunker

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/arjunrk/govdoc-intel/internal/extractor"
)

// sentence builds an n-word sentence whose every word carries the tag, so
// chunk membership is visible in the output text.
func sentence(tag string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = tag
	}
	words[0] = strings.ToUpper(tag[:1]) + tag[1:]
	return strings.Join(words, " ") + "."
}

func TestSplitSentences(t *testing.T) {
	text := "First sentence here. Second one follows! Was there a third? Yes indeed."
	got := splitSentences(text)

	want := []string{
		"First sentence here.",
		"Second one follows!",
		"Was there a third?",
		"Yes indeed.",
	}
	if len(got) != len(want) {
		t.Fatalf("splitSentences = %d sentences %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesKeepsDecimals(t *testing.T) {
	text := "The rate was 3.14 percent overall. Expenditure rose e.g. in the city."
	got := splitSentences(text)

	if len(got) != 2 {
		t.Fatalf("splitSentences = %v, want 2 sentences", got)
	}
	if !strings.Contains(got[0], "3.14") {
		t.Errorf("decimal split apart: %q", got[0])
	}
	if !strings.Contains(got[1], "e.g. in") {
		t.Errorf("abbreviation split apart: %q", got[1])
	}
}

func TestChunkingInvariants(t *testing.T) {
	// Five 20-word sentences against target 50 / overlap 15: each emitted
	// chunk holds two sentences and consecutive chunks share one.
	tags := []string{"alpha", "bravo", "carol", "delta", "echos"}
	var parts []string
	for _, tag := range tags {
		parts = append(parts, sentence(tag, 20))
	}
	text := strings.Join(parts, " ")

	c := New(50, 15)
	chunks := c.ChunkDocument("doc1", text, nil)

	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4: %+v", len(chunks), chunks)
	}

	for i, ch := range chunks {
		if ch.ChunkSize > 50 {
			t.Errorf("chunk %d size %d exceeds target", i, ch.ChunkSize)
		}
		if got := len(strings.Fields(ch.ChunkText)); got != ch.ChunkSize {
			t.Errorf("chunk %d ChunkSize = %d but text has %d words", i, ch.ChunkSize, got)
		}
		wantID := fmt.Sprintf("doc1_chunk_%d", i)
		if ch.ChunkID != wantID || ch.ChunkIndex != i || ch.DocumentID != "doc1" {
			t.Errorf("chunk %d identity = %q/%d/%q", i, ch.ChunkID, ch.ChunkIndex, ch.DocumentID)
		}
	}

	// Consecutive chunks share at least the overlap word count.
	for i := 1; i < len(chunks); i++ {
		shared := sharedWords(chunks[i-1].ChunkText, chunks[i].ChunkText)
		if shared < 15 {
			t.Errorf("chunks %d/%d share %d words, want >= 15", i-1, i, shared)
		}
	}

	// Every sentence tag appears somewhere; order is preserved across the
	// chunk sequence.
	joined := strings.Join([]string{
		chunks[0].ChunkText, chunks[1].ChunkText,
		chunks[2].ChunkText, chunks[3].ChunkText,
	}, " ")
	lastIdx := -1
	for _, tag := range tags {
		idx := strings.Index(joined, strings.ToUpper(tag[:1])+tag[1:])
		if idx < 0 {
			t.Fatalf("sentence %q missing from chunk output", tag)
		}
		if idx < lastIdx {
			t.Errorf("sentence %q out of order", tag)
		}
		lastIdx = idx
	}
}

func TestOversizedFirstSentenceStandalone(t *testing.T) {
	text := sentence("giant", 60) + " " + sentence("small", 10)

	c := New(50, 15)
	chunks := c.ChunkDocument("doc1", text, nil)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].ChunkSize != 60 {
		t.Errorf("oversized chunk size = %d, want 60", chunks[0].ChunkSize)
	}
	// No overlap is carried out of a standalone oversized chunk.
	if strings.Contains(chunks[1].ChunkText, "giant") {
		t.Errorf("overlap leaked from oversized chunk: %q", chunks[1].ChunkText)
	}
}

func TestFinalUndersizedChunkEmitted(t *testing.T) {
	c := New(50, 15)
	chunks := c.ChunkDocument("doc1", sentence("tiny", 4), nil)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].ChunkSize != 4 {
		t.Errorf("ChunkSize = %d, want 4", chunks[0].ChunkSize)
	}
}

func TestEmptyTextNoChunks(t *testing.T) {
	c := New(50, 15)
	if chunks := c.ChunkDocument("doc1", "", nil); chunks != nil {
		t.Errorf("got %v, want nil", chunks)
	}
	if chunks := c.ChunkDocument("doc1", "   \n  ", nil); chunks != nil {
		t.Errorf("whitespace-only text: got %v, want nil", chunks)
	}
}

func TestMetadataCopiedPerChunk(t *testing.T) {
	gt := "1,00,000.00"
	meta := &extractor.DocumentMetadata{
		DocumentType:       "Monthly Account (Form-80)",
		GrandTotal:         &gt,
		HeadOfAccountCodes: []string{"8443"},
	}

	var parts []string
	for _, tag := range []string{"alpha", "bravo", "carol"} {
		parts = append(parts, sentence(tag, 20))
	}

	c := New(50, 15)
	chunks := c.ChunkDocument("doc1", strings.Join(parts, " "), meta)
	if len(chunks) < 2 {
		t.Fatalf("need >= 2 chunks, got %d", len(chunks))
	}

	*chunks[0].Metadata.GrandTotal = "mutated"
	chunks[0].Metadata.HeadOfAccountCodes[0] = "mutated"

	if *chunks[1].Metadata.GrandTotal == "mutated" || *meta.GrandTotal == "mutated" {
		t.Error("GrandTotal shared between chunks or with the source record")
	}
	if chunks[1].Metadata.HeadOfAccountCodes[0] == "mutated" || meta.HeadOfAccountCodes[0] == "mutated" {
		t.Error("HeadOfAccountCodes shared between chunks or with the source record")
	}
}

func TestDefaultSizes(t *testing.T) {
	c := New(0, -1)
	if c.targetWords != DefaultTargetWords || c.overlapWords != DefaultOverlapWords {
		t.Errorf("defaults = %d/%d, want %d/%d",
			c.targetWords, c.overlapWords, DefaultTargetWords, DefaultOverlapWords)
	}
}

// sharedWords counts how many trailing words of a also lead b.
func sharedWords(a, b string) int {
	aw := strings.Fields(a)
	bw := strings.Fields(b)
	best := 0
	for n := 1; n <= len(aw) && n <= len(bw); n++ {
		match := true
		for i := 0; i < n; i++ {
			if aw[len(aw)-n+i] != bw[i] {
				match = false
				break
			}
		}
		if match {
			best = n
		}
	}
	return best
}

func TestNearTargetSentenceTerminates(t *testing.T) {
	c := New(50, 15)
	text := sentence("alpha", 49) + " " + sentence("beta", 5)

	done := make(chan []Chunk, 1)
	go func() { done <- c.ChunkDocument("doc1", text, nil) }()

	var chunks []Chunk
	select {
	case chunks = <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("ChunkDocument did not terminate on a near-target sentence")
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	// The 49-word overlap seed cannot sit next to the 5-word trigger within
	// the 50-word target, so the seed is trimmed away instead of re-emitting
	// the first chunk.
	if chunks[0].ChunkSize != 49 {
		t.Errorf("first chunk size: got %d, want 49", chunks[0].ChunkSize)
	}
	if chunks[1].ChunkSize != 5 {
		t.Errorf("second chunk size: got %d, want 5", chunks[1].ChunkSize)
	}
	if strings.Contains(chunks[1].ChunkText, "alpha") {
		t.Errorf("second chunk carries an oversized overlap seed: %q", chunks[1].ChunkText)
	}
}

func TestOverlapSeedPartiallyTrimmed(t *testing.T) {
	// Four 10-word sentences against target 25, overlap 20: the walk seeds
	// two sentences (20 words), which cannot fit next to a 10-word trigger,
	// so one seed sentence is dropped and the other carries over.
	c := New(25, 20)
	text := sentence("alpha", 10) + " " + sentence("beta", 10) + " " +
		sentence("gamma", 10) + " " + sentence("delta", 10)

	chunks := c.ChunkDocument("doc1", text, nil)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[1].ChunkSize != 20 {
		t.Errorf("second chunk size: got %d, want 20", chunks[1].ChunkSize)
	}
	if !strings.Contains(chunks[1].ChunkText, "beta") || strings.Contains(chunks[1].ChunkText, "alpha") {
		t.Errorf("second chunk should keep only the trimmed seed: %q", chunks[1].ChunkText)
	}
	if !strings.Contains(chunks[2].ChunkText, "gamma") || !strings.Contains(chunks[2].ChunkText, "delta") {
		t.Errorf("final chunk: %q", chunks[2].ChunkText)
	}
}
