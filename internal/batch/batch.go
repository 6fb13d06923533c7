// Package batch runs the extraction pipeline over many documents with a
// bounded worker pool. One failing document never aborts the batch.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MeKo-Tech/critex/internal/criteria"
	"github.com/MeKo-Tech/critex/internal/extract"
)

// DefaultWorkers is the pool size when the configuration does not set one.
const DefaultWorkers = 4

// Config controls discovery and parallelism for one batch run.
type Config struct {
	Workers         int
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
	OutputDir       string
}

// FileResult is the outcome for one document in the batch.
type FileResult struct {
	Path     string           `json:"path"`
	JobID    string           `json:"job_id"`
	Result   *criteria.Result `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
	Duration time.Duration    `json:"duration_ns"`
}

// Succeeded reports whether the document produced a result.
func (f FileResult) Succeeded() bool { return f.Error == "" }

// Result summarizes a whole batch run. Files is in discovery order.
type Result struct {
	Files       []FileResult  `json:"files"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Duration    time.Duration `json:"duration_ns"`
	WorkerCount int           `json:"worker_count"`
}

// Process discovers PDFs under paths and extracts them in parallel.
// Returns an error only when discovery finds nothing to do; per-document
// failures are recorded in the result instead.
func Process(ctx context.Context, extractor *extract.Extractor, paths []string, cfg Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	files, err := discoverPDFFiles(paths, cfg.Recursive, cfg.IncludePatterns, cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("batch: discovering documents: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("batch: no PDF files found")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(files) {
		workers = len(files)
	}

	start := time.Now()
	results := runPool(ctx, extractor, files, workers, logger)

	batchResult := &Result{
		Files:       results,
		Duration:    time.Since(start),
		WorkerCount: workers,
	}
	for i := range results {
		if results[i].Succeeded() {
			batchResult.Succeeded++
		} else {
			batchResult.Failed++
		}
	}

	if cfg.OutputDir != "" {
		if err := writeSummary(batchResult, cfg.OutputDir); err != nil {
			logger.Warn("writing batch summary failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("batch complete",
		slog.Int("files", len(files)),
		slog.Int("succeeded", batchResult.Succeeded),
		slog.Int("failed", batchResult.Failed),
		slog.Duration("duration", batchResult.Duration))
	return batchResult, nil
}

// runPool fans the files out over a fixed worker pool and collects results
// back into discovery order.
func runPool(ctx context.Context, extractor *extract.Extractor, files []string, workers int, logger *slog.Logger) []FileResult {
	type job struct {
		index int
		path  string
	}

	jobs := make(chan job, len(files))
	results := make([]FileResult, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = processOne(ctx, extractor, j.path, logger)
			}
		}()
	}

	for i, path := range files {
		jobs <- job{index: i, path: path}
	}
	close(jobs)
	wg.Wait()

	return results
}

// processOne extracts a single document under a fresh job id.
func processOne(ctx context.Context, extractor *extract.Extractor, path string, logger *slog.Logger) FileResult {
	jobID := uuid.NewString()
	start := time.Now()

	fr := FileResult{Path: path, JobID: jobID}
	result, err := extractor.ExtractFile(ctx, path, jobID)
	fr.Duration = time.Since(start)

	if err != nil {
		fr.Error = err.Error()
		logger.Error("document failed",
			slog.String("file", path),
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		return fr
	}

	fr.Result = result
	logger.Info("document processed",
		slog.String("file", path),
		slog.String("job_id", jobID),
		slog.Int("records", result.RecordCount()))
	return fr
}
