package extractions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts extraction history endpoints under /api/extractions.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/extractions", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/{fileID}", handleGet(store))
		r.Delete("/{fileID}", handleDelete(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit, offset := 100, 0
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		if v := q.Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				offset = n
			}
		}

		summaries, err := store.List(r.Context(), limit, offset)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if summaries == nil {
			summaries = []Summary{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"extractions": summaries,
			"count":       len(summaries),
		})
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		extraction, err := store.Get(r.Context(), chi.URLParam(r, "fileID"))
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "extraction not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, extraction)
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.Delete(r.Context(), chi.URLParam(r, "fileID"))
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "extraction not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
