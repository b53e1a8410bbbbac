package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type chatRequest struct {
	Query string `json:"query"`
}

type chatSource struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

type chatResponse struct {
	Query          string       `json:"query"`
	RefinedQuery   string       `json:"refined_query"`
	Answer         string       `json:"answer"`
	Sources        []chatSource `json:"sources"`
	RetrievedCount int          `json:"retrieved_count"`
}

// handleChat answers a question over the indexed corpus: refine the query,
// retrieve matching chunks, then generate a grounded answer. The answer is
// generated against the original question so refinement errors cannot
// change what the user asked.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}

	refined := s.agent.RefineQuery(r.Context(), req.Query)

	results, err := s.retriever.Retrieve(r.Context(), refined)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("retrieval: %w", err))
		return
	}

	answer := s.agent.GenerateAnswer(r.Context(), req.Query, results)

	sources := make([]chatSource, 0, len(results))
	for _, res := range results {
		sources = append(sources, chatSource{
			ChunkID:    res.Chunk.ChunkID,
			DocumentID: res.Chunk.DocumentID,
			Text:       res.Chunk.ChunkText,
			Score:      res.SimilarityScore,
		})
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Query:          req.Query,
		RefinedQuery:   refined,
		Answer:         answer,
		Sources:        sources,
		RetrievedCount: len(results),
	})
}
