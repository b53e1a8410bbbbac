package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arjunrk/govdoc-intel/internal/db"
	"github.com/arjunrk/govdoc-intel/internal/extractions"
	"github.com/arjunrk/govdoc-intel/internal/vectorindex"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Stats only needs the stores, not embedding or LLM credentials.
		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		index, err := vectorindex.New(filepath.Join(cfg.DataDir, cfg.VectorDBDir), cfg.EmbeddingDimension)
		if err != nil {
			return fmt.Errorf("opening vector index: %w", err)
		}

		count, err := extractions.NewStore(database).Count(context.Background())
		if err != nil {
			return fmt.Errorf("counting extractions: %w", err)
		}
		idx := index.Stats()

		fmt.Printf("Documents processed:  %d\n", count)
		fmt.Printf("Chunks indexed:       %d\n", idx.TotalChunks)
		fmt.Printf("Indexed documents:    %d\n", idx.UniqueDocuments)
		fmt.Printf("Embedding dimension:  %d\n", idx.Dimension)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
