package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// RemoteEngine sends documents to an external OCR HTTP service that returns
// the unified result shape as JSON. Recognition over scanned multi-page PDFs
// is slow, hence the generous client timeout.
type RemoteEngine struct {
	endpoint string
	client   *http.Client
}

// NewRemoteEngine returns an engine posting documents to the given endpoint.
func NewRemoteEngine(endpoint string) *RemoteEngine {
	return &RemoteEngine{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Minute},
	}
}

func (e *RemoteEngine) Name() string { return "remote" }

func (e *RemoteEngine) Recognize(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("building OCR request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("creating OCR request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling OCR service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading OCR response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OCR service returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing OCR response: %w", err)
	}
	fillDerived(&res, e.Name())
	return &res, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
