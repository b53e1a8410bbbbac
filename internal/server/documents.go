package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/arjunrk/govdoc-intel/internal/pipeline"
)

// allowedExtensions are the document types the pipeline accepts.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// uploadResponse wraps one document's pipeline outcome.
type uploadResponse struct {
	Filename string           `json:"filename"`
	Status   string           `json:"status"`
	Result   *pipeline.Result `json:"result"`
}

// handleUpload accepts a multipart document upload, runs OCR and the full
// pipeline, and records the extraction. Rejected documents get a 422 so the
// caller can distinguish them without inspecting the validation body.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.MaxFileSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Errorf("file exceeds %d MB limit", s.cfg.MaxFileSizeMB))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("unsupported file type %q: allowed types are .pdf, .jpg, .jpeg, .png", ext))
		return
	}

	fileID := uuid.New().String()
	destPath, err := s.saveUpload(file, fileID+ext)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	ocrRes, err := s.engine.Recognize(r.Context(), destPath)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("ocr failed: %w", err))
		return
	}

	res, err := s.pipe.Process(r.Context(), fileID, *ocrRes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.store.Save(r.Context(), header.Filename, res.DisplayText, res); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("recording extraction: %w", err))
		return
	}

	status := http.StatusOK
	if res.Rejected() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, uploadResponse{
		Filename: header.Filename,
		Status:   string(res.Validation.Recommendation),
		Result:   res,
	})
}

// saveUpload copies the uploaded stream into the upload directory and
// returns the stored path.
func (s *Server) saveUpload(src io.Reader, name string) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}
	destPath := filepath.Join(s.cfg.UploadDir, name)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", destPath, err)
	}
	defer dest.Close()
	if _, err := io.Copy(dest, src); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("saving upload: %w", err)
	}
	return destPath, nil
}
