// Package resolver turns entity bounding boxes into real image files by
// cropping rendered page rasters. It never writes placeholder files: an
// entity that cannot be cropped is logged and skipped.
package resolver

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/critex/internal/criteria"
	"github.com/MeKo-Tech/critex/internal/docai"
	"github.com/MeKo-Tech/critex/internal/geometry"
)

// cropConfidence marks crops cut from detected entity regions. The region
// itself came from the service, so the pixel content is certain.
const cropConfidence = 1.0

// PageSource supplies page rasters and point-space page sizes.
type PageSource interface {
	Page(pageNumber int) (image.Image, error)
	PageSize(pageNumber int) (w, h float64, err error)
}

// Resolver crops entity regions out of page renders.
type Resolver struct {
	pages     PageSource
	transform geometry.Transformer
	outDir    string
	logger    *slog.Logger
}

// New returns a Resolver writing crops into outDir.
func New(pages PageSource, outDir string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		pages:     pages,
		transform: geometry.NewTransformer(),
		outDir:    outDir,
		logger:    logger,
	}
}

// ResolveEntities crops every entity that carries a usable bounding box.
// Page sizes reported by the service take precedence over the renderer's;
// failures affect only the entity at hand. Returned images are in entity
// order.
func (r *Resolver) ResolveEntities(entities []docai.Entity, resp *docai.Response) ([]criteria.ResolvedImage, error) {
	if err := os.MkdirAll(r.outDir, 0o750); err != nil {
		return nil, fmt.Errorf("resolver: creating output directory: %w", err)
	}

	var images []criteria.ResolvedImage
	seq := 0
	for _, ent := range entities {
		if !ent.BoundingBox.Valid() {
			continue
		}
		seq++

		img, err := r.cropEntity(ent, resp, seq)
		if err != nil {
			r.logger.Warn("entity crop failed",
				slog.String("entity_type", ent.Type),
				slog.Int("page", ent.PageNumber),
				slog.String("error", err.Error()))
			continue
		}
		images = append(images, *img)
	}
	return images, nil
}

func (r *Resolver) cropEntity(ent docai.Entity, resp *docai.Response, seq int) (*criteria.ResolvedImage, error) {
	raster, err := r.pages.Page(ent.PageNumber)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", ent.PageNumber, err)
	}
	bounds := raster.Bounds()

	pageW, pageH := r.pageSize(ent.PageNumber, resp)

	rect, degraded, err := r.transform.PixelRect(ent.BoundingBox, bounds.Dx(), bounds.Dy(), pageW, pageH)
	if err != nil {
		return nil, fmt.Errorf("mapping region: %w", err)
	}
	if degraded {
		r.logger.Warn("page size unknown, using reference page geometry",
			slog.String("entity_type", ent.Type),
			slog.Int("page", ent.PageNumber))
	}

	crop := imaging.Crop(raster, rect)
	if crop.Bounds().Empty() {
		return nil, errors.New("crop produced empty image")
	}

	filename := cropFilename(ent.Type, ent.MentionText, seq)
	path := filepath.Join(r.outDir, filename)
	if err := imaging.Save(crop, path); err != nil {
		return nil, fmt.Errorf("saving crop: %w", err)
	}

	return &criteria.ResolvedImage{
		ID:          fmt.Sprintf("%s_image_%d", strings.ToLower(ent.Type), seq),
		PageNumber:  ent.PageNumber,
		BoundingBox: ent.BoundingBox,
		Source:      criteria.SourceServiceCrop,
		Confidence:  cropConfidence,
		Path:        filename,
		Description: ent.MentionText,
	}, nil
}

// pageSize prefers the service-reported geometry; zeros defer the decision
// to the coordinate transformer's reference fallback.
func (r *Resolver) pageSize(pageNumber int, resp *docai.Response) (float64, float64) {
	if resp != nil {
		if w, h, ok := resp.PageSize(pageNumber); ok {
			return w, h
		}
	}
	if w, h, err := r.pages.PageSize(pageNumber); err == nil && w > 0 && h > 0 {
		return w, h
	}
	return 0, 0
}

// cropFilename builds a filesystem-safe name from the entity type and a
// shortened description, mirroring the region's provenance in the name.
func cropFilename(entityType, description string, seq int) string {
	return fmt.Sprintf("%s_%s_%d.png", strings.ToLower(entityType), sanitize(description), seq)
}

// sanitize keeps letters, digits, dashes and underscores, replaces spaces,
// and truncates to 30 bytes.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	out := b.String()
	if len(out) > 30 {
		out = out[:30]
	}
	return out
}
