// Package vectorindex is a flat inner-product similarity index over
// fixed-dimension chunk embeddings, persisted to disk on every add.
//
// Vectors and chunk records live in a single slice of paired entries, so
// there is no separate metadata sequence to fall out of alignment with the
// vector store. Both on-disk artifacts are rewritten in full on each add and
// loaded together at startup; a missing or unreadable artifact means the
// index starts empty.
package vectorindex

import (
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/arjunrk/govdoc-intel/internal/chunker"
	"github.com/arjunrk/govdoc-intel/internal/extractor"
)

const (
	indexFile    = "index.gob"
	metadataFile = "metadata.gob"
)

// Record is the persisted per-chunk payload, the chunk minus its embedding.
type Record struct {
	ChunkID    string
	DocumentID string
	ChunkIndex int
	ChunkText  string
	ChunkSize  int
	Metadata   *extractor.DocumentMetadata
}

// SearchResult pairs a record with its score. Distance and SimilarityScore
// are both the raw inner product; on L2-normalized vectors that is the
// cosine similarity.
type SearchResult struct {
	Chunk           Record  `json:"chunk"`
	Distance        float64 `json:"distance"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Stats summarizes index contents.
type Stats struct {
	TotalChunks     int `json:"total_chunks"`
	Dimension       int `json:"dimension"`
	UniqueDocuments int `json:"unique_documents"`
}

type entry struct {
	Vector []float32
	Record Record
}

// Index is safe for concurrent use: adds take the write lock around both the
// in-memory append and the synchronous persist, searches share the read
// lock.
type Index struct {
	mu        sync.RWMutex
	dir       string
	dimension int
	entries   []entry
}

// New opens or creates an index rooted at dir. Existing artifacts are loaded
// when both are present and readable; otherwise the index starts empty.
func New(dir string, dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("vectorindex: invalid dimension %d", dimension)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("vectorindex: create storage dir: %w", err)
	}

	idx := &Index{dir: dir, dimension: dimension}
	idx.load()
	log.Printf("vectorindex ready | vectors=%d dim=%d", len(idx.entries), dimension)
	return idx, nil
}

// Add validates every chunk's embedding before touching any state, appends
// the new entries, and rewrites both artifacts before returning. A failed
// persist leaves neither memory nor disk with the new chunks.
func (idx *Index) Add(chunks []chunker.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for _, c := range chunks {
		if c.Embedding == nil {
			return fmt.Errorf("vectorindex: chunk %s has no embedding", c.ChunkID)
		}
		if len(c.Embedding) != idx.dimension {
			return fmt.Errorf("vectorindex: chunk %s embedding dimension %d, index wants %d",
				c.ChunkID, len(c.Embedding), idx.dimension)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	next := make([]entry, len(idx.entries), len(idx.entries)+len(chunks))
	copy(next, idx.entries)
	for _, c := range chunks {
		vec := make([]float32, len(c.Embedding))
		copy(vec, c.Embedding)
		next = append(next, entry{
			Vector: vec,
			Record: Record{
				ChunkID:    c.ChunkID,
				DocumentID: c.DocumentID,
				ChunkIndex: c.ChunkIndex,
				ChunkText:  c.ChunkText,
				ChunkSize:  c.ChunkSize,
				Metadata:   c.Metadata,
			},
		})
	}

	if err := idx.persist(next); err != nil {
		return fmt.Errorf("vectorindex: persist: %w", err)
	}
	idx.entries = next
	log.Printf("vectorindex: added %d chunks, total %d", len(chunks), len(next))
	return nil
}

// Search returns up to topK results ordered by descending inner product.
func (idx *Index) Search(query []float32, topK int) ([]SearchResult, error) {
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("vectorindex: query dimension %d, index wants %d", len(query), idx.dimension)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("vectorindex: top_k must be positive, got %d", topK)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]SearchResult, 0, len(idx.entries))
	for _, e := range idx.entries {
		score := dot(query, e.Vector)
		results = append(results, SearchResult{
			Chunk:           e.Record,
			Distance:        score,
			SimilarityScore: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Stats counts vectors and distinct non-empty document ids.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	docs := make(map[string]struct{})
	for _, e := range idx.entries {
		if e.Record.DocumentID != "" {
			docs[e.Record.DocumentID] = struct{}{}
		}
	}
	return Stats{
		TotalChunks:     len(idx.entries),
		Dimension:       idx.dimension,
		UniqueDocuments: len(docs),
	}
}

// persist rewrites both artifacts in full, each through a temp file and
// rename so a crash mid-write never leaves a torn artifact behind.
func (idx *Index) persist(entries []entry) error {
	vectors := make([][]float32, len(entries))
	records := make([]Record, len(entries))
	for i, e := range entries {
		vectors[i] = e.Vector
		records[i] = e.Record
	}

	if err := writeGob(filepath.Join(idx.dir, indexFile), vectors); err != nil {
		return err
	}
	return writeGob(filepath.Join(idx.dir, metadataFile), records)
}

// load reads both artifacts. Either one missing or corrupt leaves the index
// empty; a partial load is never kept.
func (idx *Index) load() {
	var vectors [][]float32
	var records []Record

	if err := readGob(filepath.Join(idx.dir, indexFile), &vectors); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("vectorindex: unreadable %s, starting empty: %v", indexFile, err)
		}
		return
	}
	if err := readGob(filepath.Join(idx.dir, metadataFile), &records); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("vectorindex: unreadable %s, starting empty: %v", metadataFile, err)
		}
		return
	}
	if len(vectors) != len(records) {
		log.Printf("vectorindex: artifact length mismatch (%d vectors, %d records), starting empty",
			len(vectors), len(records))
		return
	}

	entries := make([]entry, len(vectors))
	for i := range vectors {
		if len(vectors[i]) != idx.dimension {
			log.Printf("vectorindex: stored vector %d has dimension %d, index wants %d, starting empty",
				i, len(vectors[i]), idx.dimension)
			return
		}
		entries[i] = entry{Vector: vectors[i], Record: records[i]}
	}
	idx.entries = entries
	log.Printf("vectorindex: loaded %d entries from %s", len(entries), idx.dir)
}

func writeGob(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
