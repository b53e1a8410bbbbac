package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arjunrk/govdoc-intel/internal/chunker"
	"github.com/arjunrk/govdoc-intel/internal/cleaner"
	"github.com/arjunrk/govdoc-intel/internal/config"
	"github.com/arjunrk/govdoc-intel/internal/db"
	"github.com/arjunrk/govdoc-intel/internal/normalizer"
	"github.com/arjunrk/govdoc-intel/internal/ocr"
	"github.com/arjunrk/govdoc-intel/internal/pipeline"
	"github.com/arjunrk/govdoc-intel/internal/rag"
	"github.com/arjunrk/govdoc-intel/internal/retrieval"
	"github.com/arjunrk/govdoc-intel/internal/vectorindex"
)

// fakeEngine returns a canned OCR result for any path.
type fakeEngine struct {
	res ocr.Result
}

func (f *fakeEngine) Recognize(ctx context.Context, path string) (*ocr.Result, error) {
	r := f.res
	return &r, nil
}

func (f *fakeEngine) Name() string { return "fake" }

// constEmbedder maps every text to the same vector, so every search scores
// a perfect match.
type constEmbedder struct{}

func (constEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

func (constEmbedder) Dimensions() int { return 3 }
func (constEmbedder) Name() string    { return "const" }

const sampleText = "The treasury office submitted the monthly account statement for the division. " +
	"FORM-80 MONTHLY ACCOUNT of the public works division was received on time. " +
	"The schedule lists expenditure against each sanctioned work in the division. " +
	"GRAND TOTAL 1,82,68,500.00 was recorded for the month under review. " +
	"All supporting vouchers were attached with the compiled account bundle."

func newTestServer(t *testing.T, engine ocr.Engine) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.UploadDir = t.TempDir()
	cfg.CORSOrigins = []string{"*"}

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	index, err := vectorindex.New(t.TempDir(), 3)
	if err != nil {
		t.Fatalf("vectorindex.New: %v", err)
	}

	emb := constEmbedder{}
	pipe := pipeline.New(cleaner.New(0.8), normalizer.New(), chunker.New(40, 10), emb, index)
	retriever := retrieval.New(emb, index, 5, 0.3)
	agent := rag.New(nil, 512, 0.3)

	return New(cfg, database, engine, pipe, index, retriever, agent)
}

func goodEngine() *fakeEngine {
	return &fakeEngine{res: ocr.Result{
		FullText:   sampleText,
		Confidence: 0.85,
		WordCount:  len(strings.Fields(sampleText)),
		TotalPages: 1,
		EngineName: "fake",
	}}
}

func uploadFile(t *testing.T, srv *Server, filename string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("%PDF-1.4 test bytes"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, goodEngine())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestUploadStoresDocument(t *testing.T) {
	srv := newTestServer(t, goodEngine())

	w := uploadFile(t, srv, "march_account.pdf")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp uploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Filename != "march_account.pdf" {
		t.Errorf("filename: got %q", resp.Filename)
	}
	if resp.Status != "store" {
		t.Errorf("status: got %q, want store", resp.Status)
	}
	if resp.Result.ChunksCreated == 0 {
		t.Error("expected chunks to be created")
	}

	// The extraction record must be retrievable by document ID.
	req := httptest.NewRequest("GET", "/api/extractions/"+resp.Result.DocumentID, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("extraction lookup: expected 200, got %d", rec.Code)
	}

	// Stats reflect the stored document and its chunks.
	req = httptest.NewRequest("GET", "/api/stats", nil)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	var stats struct {
		Documents   int               `json:"documents"`
		VectorIndex vectorindex.Stats `json:"vector_index"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if stats.Documents != 1 {
		t.Errorf("documents: got %d, want 1", stats.Documents)
	}
	if stats.VectorIndex.TotalChunks != resp.Result.ChunksCreated {
		t.Errorf("indexed chunks: got %d, want %d", stats.VectorIndex.TotalChunks, resp.Result.ChunksCreated)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	srv := newTestServer(t, goodEngine())

	w := uploadFile(t, srv, "notes.txt")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUploadRejectedDocumentRecorded(t *testing.T) {
	srv := newTestServer(t, &fakeEngine{res: ocr.Result{
		FullText:   "BAD SCAN",
		Confidence: 0.2,
		WordCount:  2,
		TotalPages: 1,
		EngineName: "fake",
	}})

	w := uploadFile(t, srv, "blurry.pdf")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	var resp uploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "reject" {
		t.Errorf("status: got %q, want reject", resp.Status)
	}

	// Rejected documents are still recorded for later audit.
	req := httptest.NewRequest("GET", "/api/extractions/"+resp.Result.DocumentID, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("rejected extraction lookup: expected 200, got %d", rec.Code)
	}

	// Nothing reaches the index.
	if got := srv.index.Stats().TotalChunks; got != 0 {
		t.Errorf("indexed chunks after reject: got %d, want 0", got)
	}
}

func TestChat(t *testing.T) {
	srv := newTestServer(t, goodEngine())

	if w := uploadFile(t, srv, "march_account.pdf"); w.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", w.Code)
	}

	body, _ := json.Marshal(chatRequest{Query: "What was the grand total for March?"})
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.RetrievedCount == 0 {
		t.Fatal("expected retrieved chunks")
	}
	// No LLM is configured, so the answer falls back to the top chunk.
	if !strings.HasPrefix(resp.Answer, "[LLM not available") {
		t.Errorf("answer: got %q", resp.Answer)
	}
	// The refiner is also unavailable, so the query passes through unchanged.
	if resp.RefinedQuery != resp.Query {
		t.Errorf("refined query: got %q, want passthrough", resp.RefinedQuery)
	}
	if resp.Sources[0].Score < 0.99 {
		t.Errorf("top source score: got %f", resp.Sources[0].Score)
	}
}

func TestChatEmptyQuery(t *testing.T) {
	srv := newTestServer(t, goodEngine())

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"query":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
