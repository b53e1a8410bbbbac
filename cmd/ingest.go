package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arjunrk/govdoc-intel/internal/gate"
	"github.com/arjunrk/govdoc-intel/internal/progress"
)

// ingestExtensions are the document types accepted for batch ingestion.
var ingestExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [glob...]",
	Short: "Run the pipeline over documents matching the given glob patterns",
	Long: `Processes each matching document through the full pipeline: OCR, cleaning,
normalization, field extraction, validation, chunking, and indexing.
Patterns support ** via doublestar, e.g. "scans/**/*.pdf".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := expandPatterns(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No matching documents found.")
		return nil
	}

	comps, err := openComponents(cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	reporter := progress.NewReporter()
	reporter.Start(len(files))

	var stored, review, rejected, failed int
	for i, path := range files {
		reporter.Update(i+1, filepath.Base(path))

		ocrRes, err := comps.engine.Recognize(ctx, path)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: ocr failed: %v\n", path, err)
			continue
		}

		docID := uuid.New().String()
		res, err := comps.pipe.Process(ctx, docID, *ocrRes)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: %v\n", path, err)
			continue
		}
		if err := comps.store.Save(ctx, filepath.Base(path), res.DisplayText, res); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: recording extraction: %v\n", path, err)
			continue
		}

		switch res.Validation.Recommendation {
		case gate.Store:
			stored++
		case gate.Review:
			review++
		case gate.Reject:
			rejected++
			if verbose {
				fmt.Fprintf(os.Stderr, "  %s rejected: %s\n", path, strings.Join(res.Validation.Warnings, "; "))
			}
		}
	}
	reporter.Finish()

	fmt.Printf("Ingested %d documents: %d stored, %d flagged for review, %d rejected, %d failed\n",
		len(files), stored, review, rejected, failed)
	if failed > 0 {
		return fmt.Errorf("%d documents failed", failed)
	}
	return nil
}

// expandPatterns resolves the glob patterns into a sorted, deduplicated list
// of ingestible document paths.
func expandPatterns(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !ingestExtensions[strings.ToLower(filepath.Ext(m))] || seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}
