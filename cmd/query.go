package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arjunrk/govdoc-intel/internal/vectorindex"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question over the indexed document corpus",
	Long:  `Refines the question, retrieves the most similar indexed chunks, and generates a grounded answer. Without a configured LLM the top chunk is shown instead.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().Bool("json", false, "output the answer and sources as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	comps, err := openComponents(cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	if comps.index.Stats().TotalChunks == 0 {
		fmt.Println("The index is empty. Run `govdoc ingest` first.")
		return nil
	}

	refined := comps.agent.RefineQuery(ctx, question)
	if verbose && refined != question {
		fmt.Fprintf(os.Stderr, "Refined query: %s\n", refined)
	}

	results, err := comps.retriever.Retrieve(ctx, refined)
	if err != nil {
		return fmt.Errorf("retrieval: %w", err)
	}

	answer := comps.agent.GenerateAnswer(ctx, question, results)

	if jsonOutput {
		return printQueryJSON(question, refined, answer, results)
	}

	fmt.Println(answer)
	if len(results) > 0 {
		fmt.Printf("\nSources:\n")
		for i, r := range results {
			fmt.Printf("  %d. [%.1f%%] %s\n", i+1, r.SimilarityScore*100, r.Chunk.ChunkID)
		}
	}
	return nil
}

type querySourceJSON struct {
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
}

func printQueryJSON(question, refined, answer string, results []vectorindex.SearchResult) error {
	out := struct {
		Query        string            `json:"query"`
		RefinedQuery string            `json:"refined_query"`
		Answer       string            `json:"answer"`
		Sources      []querySourceJSON `json:"sources"`
	}{Query: question, RefinedQuery: refined, Answer: answer}

	for i, r := range results {
		out.Sources = append(out.Sources, querySourceJSON{
			Rank:       i + 1,
			Similarity: r.SimilarityScore,
			ChunkID:    r.Chunk.ChunkID,
			DocumentID: r.Chunk.DocumentID,
			Text:       r.Chunk.ChunkText,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
