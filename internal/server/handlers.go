package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/critex/internal/extract"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// extractHandler accepts a PDF upload and starts an asynchronous job. The
// response carries the job id; clients poll /jobs/{id} or attach to the
// job's WebSocket for progress.
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		s.writeErrorResponse(w, "No document file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		s.writeErrorResponse(w, "Only PDF documents are supported", http.StatusBadRequest)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	job := s.registry.Create(filepath.Base(header.Filename))

	path, err := s.saveUpload(file, job.ID)
	if err != nil {
		_ = s.registry.Fail(job.ID, err)
		s.writeErrorResponse(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}

	go s.runJob(job.ID, path)

	s.writeJSON(w, http.StatusAccepted, UploadResponse{JobID: job.ID, Status: job.Status})
}

// runJob drives one extraction to a terminal state. Runs detached from
// the upload request; errors land in the registry, not on a connection.
func (s *Server) runJob(jobID, path string) {
	defer func() { _ = os.Remove(path) }()

	if err := s.registry.MarkProcessing(jobID); err != nil {
		s.logger.Error("job transition failed", slog.String("job_id", jobID), slog.String("error", err.Error()))
		return
	}

	start := time.Now()
	result, err := s.extractor.ExtractFile(context.Background(), path, jobID)
	extractionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		extractionsTotal.WithLabelValues(string(extract.StatusFailed)).Inc()
		if ferr := s.registry.Fail(jobID, err); ferr != nil {
			s.logger.Error("recording job failure failed", slog.String("job_id", jobID), slog.String("error", ferr.Error()))
		}
		return
	}

	extractionsTotal.WithLabelValues(string(extract.StatusCompleted)).Inc()
	recordsExtracted.Observe(float64(result.RecordCount()))
	imagesResolved.Observe(float64(len(result.Images)))

	if cerr := s.registry.Complete(jobID, result); cerr != nil {
		s.logger.Error("recording job completion failed", slog.String("job_id", jobID), slog.String("error", cerr.Error()))
	}
}

// jobHandler returns one job's state, including the result once completed.
func (s *Server) jobHandler(w http.ResponseWriter, r *http.Request) {
	job, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		s.writeErrorResponse(w, "Job not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

// listJobsHandler returns all known jobs.
func (s *Server) listJobsHandler(w http.ResponseWriter, _ *http.Request) {
	jobs := s.registry.List()
	s.writeJSON(w, http.StatusOK, JobsResponse{Jobs: jobs, Count: len(jobs)})
}

// saveUpload stores the uploaded document under the job's name so the
// pipeline can read it from disk.
func (s *Server) saveUpload(file io.Reader, jobID string) (string, error) {
	dir := s.uploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	path := filepath.Join(dir, jobID+".pdf")
	out, err := os.Create(path) //nolint:gosec // G304: path is built from a generated job id
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, file); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return path, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response failed", slog.String("error", err.Error()))
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, ErrorResponse{Error: message})
}
