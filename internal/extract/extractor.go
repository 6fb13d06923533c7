// Package extract orchestrates the full pipeline for one document: upload
// to the understanding service, classification into typed records, image
// resolution and reconciliation, and result persistence.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/critex/internal/classifier"
	"github.com/MeKo-Tech/critex/internal/criteria"
	"github.com/MeKo-Tech/critex/internal/docai"
	"github.com/MeKo-Tech/critex/internal/raster"
	"github.com/MeKo-Tech/critex/internal/reconciler"
	"github.com/MeKo-Tech/critex/internal/resolver"
)

// Extractor runs the extraction pipeline. Construct with New; the zero
// value is not usable.
type Extractor struct {
	client     docai.Client
	classifier *classifier.Classifier
	outputRoot string
	logger     *slog.Logger
}

// New returns an Extractor writing job artifacts under outputRoot, one
// directory per job.
func New(client docai.Client, outputRoot string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client:     client,
		classifier: classifier.New(),
		outputRoot: outputRoot,
		logger:     logger,
	}
}

// JobDir returns the artifact directory for a job.
func (e *Extractor) JobDir(jobID string) string {
	return filepath.Join(e.outputRoot, jobID)
}

// ExtractFile runs the pipeline on one PDF. The returned result is
// complete even when individual stages degraded; only validation and
// service failures abort the job.
func (e *Extractor) ExtractFile(ctx context.Context, path, jobID string) (*criteria.Result, error) {
	start := time.Now()

	info, err := validateInput(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: extracting user-provided documents is the job
	if err != nil {
		return nil, fmt.Errorf("extract: reading %s: %w", path, err)
	}

	resp, err := e.client.Process(ctx, data, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("extract: document processing failed: %w", err)
	}

	result := &criteria.Result{
		RawText:         resp.Text,
		ConfidenceScore: resp.Confidence,
	}

	for _, rec := range e.classifier.ClassifyAll(resp.Entities) {
		result.Add(rec)
	}
	e.supplementFromText(result, resp.Text)

	for _, tbl := range resp.Tables {
		result.Tables = append(result.Tables, criteria.Table{
			ID:          tbl.ID,
			PageNumber:  tbl.PageNumber,
			Headers:     tbl.Headers,
			Rows:        tbl.Rows,
			BoundingBox: tbl.BoundingBox,
			Confidence:  tbl.Confidence,
		})
	}
	for _, ent := range resp.Entities {
		result.RawEntities = append(result.RawEntities, criteria.RawEntity{
			Type:        ent.Type,
			Text:        ent.MentionText,
			Confidence:  ent.Confidence,
			PageNumber:  ent.PageNumber,
			BoundingBox: ent.BoundingBox,
		})
	}

	pageCount := len(resp.Pages)
	result.Images, pageCount = e.resolveImages(data, path, jobID, resp, pageCount)

	result.Metadata = criteria.Metadata{
		Filename:         filepath.Base(path),
		FileSize:         info.Size(),
		PageCount:        pageCount,
		ProcessorVersion: resp.ProcessorVersion,
		ProcessedAt:      start,
		Duration:         time.Since(start),
	}

	e.persist(result, jobID)

	e.logger.Info("extraction complete",
		slog.String("job_id", jobID),
		slog.String("file", result.Metadata.Filename),
		slog.Int("records", result.RecordCount()),
		slog.Int("images", len(result.Images)),
		slog.Duration("duration", result.Metadata.Duration))
	return result, nil
}

// resolveImages runs the crop and reconciliation stages. Every failure in
// here degrades the image list instead of failing the job. Returns the
// final images and a possibly corrected page count.
func (e *Extractor) resolveImages(data []byte, path, jobID string, resp *docai.Response, pageCount int) ([]criteria.ResolvedImage, int) {
	jobDir := e.JobDir(jobID)

	var crops []criteria.ResolvedImage
	var pages reconciler.PageSource

	renderer, err := raster.OpenDocumentBytes(data)
	if err != nil {
		e.logger.Warn("document not renderable, skipping crops",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
	} else {
		defer func() { _ = renderer.Close() }()
		if n := renderer.PageCount(); n > 0 {
			pageCount = n
		}

		cache := raster.NewPageCache(renderer)
		pages = cache

		res := resolver.New(cache, jobDir, e.logger)
		crops, err = res.ResolveEntities(resp.Entities, resp)
		if err != nil {
			e.logger.Warn("entity crop stage failed",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()))
		}
	}

	embedded, err := raster.ExtractEmbeddedImages(path)
	if err != nil {
		e.logger.Warn("embedded image extraction failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
	}

	rec := reconciler.New(jobDir, e.logger)
	images, err := rec.Reconcile(resp.Images, crops, embedded, pages, pageCount)
	if err != nil {
		e.logger.Warn("image reconciliation failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		return nil, pageCount
	}
	return images, pageCount
}

// supplementFromText backfills record types the entity model produced
// nothing for, using text pattern matches. Entity-derived records always
// win; patterns only fill gaps.
func (e *Extractor) supplementFromText(result *criteria.Result, text string) {
	if text == "" {
		return
	}
	if len(result.Loads) == 0 {
		result.Loads = classifier.LoadsFromText(text)
	}
	if len(result.Vehicles) == 0 {
		result.Vehicles = classifier.VehiclesFromText(text)
	}
	if len(result.Cranes) == 0 {
		result.Cranes = classifier.CranesFromText(text)
	}
}

// persist writes the job artifacts. Persistence is best effort: a result
// that cannot be written is still returned to the caller.
func (e *Extractor) persist(result *criteria.Result, jobID string) {
	if err := WriteReports(result, e.JobDir(jobID)); err != nil {
		e.logger.Warn("persisting results failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
	}
}

// validateInput checks the document exists, is a regular PDF file, and is
// not empty.
func validateInput(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("extract: %s is a directory", path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("extract: %s is empty", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("extract: %s is not a PDF", path)
	}
	return info, nil
}
