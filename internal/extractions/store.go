// Package extractions persists the processing history of every uploaded
// document: OCR summary, extracted text, structured fields, and the
// validation verdict.
package extractions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arjunrk/govdoc-intel/internal/db"
	"github.com/arjunrk/govdoc-intel/internal/extractor"
	"github.com/arjunrk/govdoc-intel/internal/gate"
	"github.com/arjunrk/govdoc-intel/internal/pipeline"
)

// ErrNotFound is returned when no extraction exists for a file id.
var ErrNotFound = errors.New("extraction not found")

// Extraction is one document's full processing record.
type Extraction struct {
	FileID           string                      `json:"file_id"`
	Filename         string                      `json:"filename"`
	CreatedAt        time.Time                   `json:"created_at"`
	OCREngine        string                      `json:"ocr_engine"`
	Confidence       float64                     `json:"confidence"`
	WordCount        int                         `json:"word_count"`
	TotalPages       int                         `json:"total_pages"`
	ChunksCreated    int                         `json:"chunks_created"`
	Recommendation   string                      `json:"recommendation"`
	FullText         string                      `json:"full_text,omitempty"`
	StructuredFields *extractor.DocumentMetadata `json:"structured_fields,omitempty"`
	Validation       gate.Result                 `json:"validation"`
	ProcessingMS     int64                       `json:"processing_time_ms"`
}

// Summary is the listing view of an extraction, without the full text and
// structured fields.
type Summary struct {
	FileID         string    `json:"file_id"`
	Filename       string    `json:"filename"`
	CreatedAt      time.Time `json:"created_at"`
	OCREngine      string    `json:"ocr_engine"`
	Confidence     float64   `json:"confidence"`
	WordCount      int       `json:"word_count"`
	ChunksCreated  int       `json:"chunks_created"`
	Recommendation string    `json:"recommendation"`
}

// Store provides CRUD operations for extraction records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save inserts the processing record for a pipeline result. Rejected
// documents are saved too; their record is what carries the warnings back to
// the operator.
func (s *Store) Save(ctx context.Context, filename, fullText string, res *pipeline.Result) error {
	fields, err := json.Marshal(res.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling structured fields: %w", err)
	}
	validation, err := json.Marshal(res.Validation)
	if err != nil {
		return fmt.Errorf("marshalling validation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO extractions (
			file_id, filename, ocr_engine, confidence, word_count,
			total_pages, chunks_created, recommendation, full_text,
			structured_fields, validation, processing_time_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.DocumentID,
		filename,
		res.OCREngine,
		res.Confidence,
		res.WordCount,
		res.PagesProcessed,
		res.ChunksCreated,
		string(res.Validation.Recommendation),
		fullText,
		string(fields),
		string(validation),
		res.ProcessingMS,
	)
	if err != nil {
		return fmt.Errorf("inserting extraction: %w", err)
	}
	return nil
}

// Get retrieves a single extraction record by file id.
func (s *Store) Get(ctx context.Context, fileID string) (*Extraction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT file_id, filename, created_at, ocr_engine, confidence,
			   word_count, total_pages, chunks_created, recommendation,
			   full_text, structured_fields, validation, processing_time_ms
		FROM extractions WHERE file_id = ?`, fileID)

	var (
		e          Extraction
		createdAt  string
		fields     string
		validation string
	)
	err := row.Scan(
		&e.FileID, &e.Filename, &createdAt, &e.OCREngine, &e.Confidence,
		&e.WordCount, &e.TotalPages, &e.ChunksCreated, &e.Recommendation,
		&e.FullText, &fields, &validation, &e.ProcessingMS,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning extraction: %w", err)
	}

	if t, err := time.Parse(time.DateTime, createdAt); err == nil {
		e.CreatedAt = t
	}
	if fields != "" && fields != "null" {
		if err := json.Unmarshal([]byte(fields), &e.StructuredFields); err != nil {
			return nil, fmt.Errorf("unmarshalling structured fields: %w", err)
		}
	}
	if validation != "" {
		if err := json.Unmarshal([]byte(validation), &e.Validation); err != nil {
			return nil, fmt.Errorf("unmarshalling validation: %w", err)
		}
	}
	return &e, nil
}

// List returns extraction summaries, most recent first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Summary, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT file_id, filename, created_at, ocr_engine, confidence,
			   word_count, chunks_created, recommendation
		FROM extractions
		ORDER BY created_at DESC, file_id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying extractions: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			sm        Summary
			createdAt string
		)
		if err := rows.Scan(
			&sm.FileID, &sm.Filename, &createdAt, &sm.OCREngine,
			&sm.Confidence, &sm.WordCount, &sm.ChunksCreated, &sm.Recommendation,
		); err != nil {
			return nil, fmt.Errorf("scanning extraction summary: %w", err)
		}
		if t, err := time.Parse(time.DateTime, createdAt); err == nil {
			sm.CreatedAt = t
		}
		summaries = append(summaries, sm)
	}
	return summaries, rows.Err()
}

// Delete removes an extraction record. Deleting an unknown id returns
// ErrNotFound.
func (s *Store) Delete(ctx context.Context, fileID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM extractions WHERE file_id = ?`, fileID)
	if err != nil {
		return fmt.Errorf("deleting extraction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting extraction: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored extraction records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM extractions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting extractions: %w", err)
	}
	return n, nil
}
