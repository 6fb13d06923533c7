// Package reconciler merges image candidates from every source into one
// final, deduplicated list. Source priority is fixed: native service
// imagery first, entity crops second, recovered document rasters last,
// with a whole-page render as the fallback when nothing else survives.
package reconciler

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/critex/internal/criteria"
	"github.com/MeKo-Tech/critex/internal/docai"
	"github.com/MeKo-Tech/critex/internal/raster"
)

// MinServiceImageBytes gates service-native payloads. The service pads
// image slots with tiny synthetic renders; anything below this size is a
// placeholder, not a drawing.
const MinServiceImageBytes = 2000

// PageSource renders whole pages for the fallback strategy.
type PageSource interface {
	Page(pageNumber int) (image.Image, error)
}

// Strategy produces image candidates from one acquisition source.
// Strategies run in priority order; earlier output wins dedupe ties.
type Strategy func() []criteria.ResolvedImage

// Reconciler assembles the final image list for a job.
type Reconciler struct {
	outDir string
	logger *slog.Logger
}

// New returns a Reconciler writing image files into outDir.
func New(outDir string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{outDir: outDir, logger: logger}
}

// Reconcile merges the candidates and returns the deduplicated list,
// ordered by ascending page number with candidate order preserved within
// a page. When no candidate survives, one whole-page render per page is
// produced so the result always carries visual context. pages may be nil,
// which disables the fallback.
func (r *Reconciler) Reconcile(
	serviceImages []docai.ImageRef,
	crops []criteria.ResolvedImage,
	embedded []raster.EmbeddedImage,
	pages PageSource,
	pageCount int,
) ([]criteria.ResolvedImage, error) {
	if err := os.MkdirAll(r.outDir, 0o750); err != nil {
		return nil, fmt.Errorf("reconciler: creating output directory: %w", err)
	}

	strategies := []Strategy{
		func() []criteria.ResolvedImage { return r.collectServiceImages(serviceImages) },
		func() []criteria.ResolvedImage { return crops },
		func() []criteria.ResolvedImage { return r.collectEmbedded(embedded) },
	}

	var candidates []criteria.ResolvedImage
	for _, s := range strategies {
		candidates = append(candidates, s()...)
	}

	final := dedupe(candidates)
	if len(final) == 0 && pages != nil {
		final = r.renderPageFallback(pages, pageCount)
	}
	sort.SliceStable(final, func(i, j int) bool {
		return final[i].PageNumber < final[j].PageNumber
	})
	return final, nil
}

// collectServiceImages writes qualifying native payloads to disk. Entries
// below the placeholder gate are dropped with a log line.
func (r *Reconciler) collectServiceImages(refs []docai.ImageRef) []criteria.ResolvedImage {
	var out []criteria.ResolvedImage
	for _, ref := range refs {
		if len(ref.Data) < MinServiceImageBytes {
			r.logger.Debug("dropping service image below placeholder gate",
				slog.String("id", ref.ID),
				slog.Int("bytes", len(ref.Data)))
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(ref.Data))
		if err != nil {
			r.logger.Warn("service image payload not decodable",
				slog.String("id", ref.ID),
				slog.String("error", err.Error()))
			continue
		}

		filename := fmt.Sprintf("service_%s.png", ref.ID)
		if err := imaging.Save(img, filepath.Join(r.outDir, filename)); err != nil {
			r.logger.Warn("saving service image failed",
				slog.String("id", ref.ID),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, criteria.ResolvedImage{
			ID:          ref.ID,
			PageNumber:  ref.PageNumber,
			BoundingBox: ref.BoundingBox,
			Source:      criteria.SourceServiceNative,
			Confidence:  ref.Confidence,
			Path:        filename,
		})
	}
	return out
}

// collectEmbedded persists raster objects recovered from the document
// itself. These carry full confidence; the pixels came straight out of
// the file.
func (r *Reconciler) collectEmbedded(embedded []raster.EmbeddedImage) []criteria.ResolvedImage {
	var out []criteria.ResolvedImage
	for _, emb := range embedded {
		filename := fmt.Sprintf("embedded_page_%d_%d.png", emb.PageNumber, emb.Index)
		if err := imaging.Save(emb.Image, filepath.Join(r.outDir, filename)); err != nil {
			r.logger.Warn("saving embedded image failed",
				slog.Int("page", emb.PageNumber),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, criteria.ResolvedImage{
			ID:         fmt.Sprintf("embedded_image_page_%d_%d", emb.PageNumber, emb.Index),
			PageNumber: emb.PageNumber,
			Source:     criteria.SourceRasterFallback,
			Confidence: 1.0,
			Path:       filename,
		})
	}
	return out
}

// renderPageFallback produces exactly one render per page. Pages that fail
// to render are skipped; an empty final list remains possible.
func (r *Reconciler) renderPageFallback(pages PageSource, pageCount int) []criteria.ResolvedImage {
	var out []criteria.ResolvedImage
	for page := 1; page <= pageCount; page++ {
		img, err := pages.Page(page)
		if err != nil {
			r.logger.Warn("page render fallback failed",
				slog.Int("page", page),
				slog.String("error", err.Error()))
			continue
		}
		filename := fmt.Sprintf("page_%d_render.png", page)
		if err := imaging.Save(img, filepath.Join(r.outDir, filename)); err != nil {
			r.logger.Warn("saving page render failed",
				slog.Int("page", page),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, criteria.ResolvedImage{
			ID:          fmt.Sprintf("page_%d_render", page),
			PageNumber:  page,
			Source:      criteria.SourceRasterFallback,
			Confidence:  1.0,
			Path:        filename,
			Description: fmt.Sprintf("Full render of page %d", page),
		})
	}
	return out
}

// dedupe collapses candidates that describe the same region of the same
// page, keeping the entry with the highest confidence. First-occurrence
// order is preserved, so within a page the strategy and candidate order
// survives the final page sort.
func dedupe(candidates []criteria.ResolvedImage) []criteria.ResolvedImage {
	type slot struct {
		index int
		img   criteria.ResolvedImage
	}
	seen := make(map[string]*slot)
	var order []string

	for _, img := range candidates {
		key := identityKey(img)
		if existing, ok := seen[key]; ok {
			if img.Confidence > existing.img.Confidence {
				existing.img = img
			}
			continue
		}
		seen[key] = &slot{index: len(order), img: img}
		order = append(order, key)
	}

	out := make([]criteria.ResolvedImage, 0, len(order))
	for _, key := range order {
		out = append(out, seen[key].img)
	}
	return out
}

// identityKey describes what a candidate depicts: its page plus region.
// Boxless candidates are identified by their ID instead.
func identityKey(img criteria.ResolvedImage) string {
	if img.BoundingBox.Valid() {
		b := img.BoundingBox
		return fmt.Sprintf("p%d:%.4f:%.4f:%.4f:%.4f:%t",
			img.PageNumber, b.X, b.Y, b.Width, b.Height, b.Normalized)
	}
	return fmt.Sprintf("p%d:id:%s", img.PageNumber, img.ID)
}
