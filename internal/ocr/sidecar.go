package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SidecarSuffix is appended to a document path to locate its OCR output.
const SidecarSuffix = ".ocr.json"

// SidecarEngine reads precomputed OCR results from a JSON file stored next
// to the document, so documents can be ingested offline after a separate
// OCR batch run.
type SidecarEngine struct{}

// NewSidecarEngine returns an engine that reads <path>.ocr.json.
func NewSidecarEngine() *SidecarEngine {
	return &SidecarEngine{}
}

func (e *SidecarEngine) Name() string { return "sidecar" }

func (e *SidecarEngine) Recognize(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sidecar := path + SidecarSuffix
	data, err := os.ReadFile(sidecar)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no OCR sidecar for %s: expected %s", path, sidecar)
		}
		return nil, fmt.Errorf("reading OCR sidecar %s: %w", sidecar, err)
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing OCR sidecar %s: %w", sidecar, err)
	}
	if strings.TrimSpace(res.FullText) == "" && len(res.Pages) > 0 {
		var parts []string
		for _, p := range res.Pages {
			parts = append(parts, p.Text)
		}
		res.FullText = strings.Join(parts, "\n")
	}
	fillDerived(&res, e.Name())
	return &res, nil
}

// fillDerived completes fields an engine may have omitted.
func fillDerived(res *Result, engine string) {
	if res.WordCount == 0 {
		res.WordCount = len(strings.Fields(res.FullText))
	}
	if res.TotalPages == 0 {
		if len(res.Pages) > 0 {
			res.TotalPages = len(res.Pages)
		} else {
			res.TotalPages = 1
		}
	}
	if res.EngineName == "" {
		res.EngineName = engine
	}
}
