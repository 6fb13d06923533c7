package raster

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Thresholds separating real drawing content from decorative fragments
// (logos, rules, hatch fills). Anything smaller is discarded.
const (
	MinEmbeddedDimensionPx = 100
	MinEmbeddedFileBytes   = 5000
)

// EmbeddedImage is a raster object recovered from the PDF's own content
// stream, as opposed to a render of the page.
type EmbeddedImage struct {
	PageNumber int
	Index      int
	Image      image.Image
}

// ExtractEmbeddedImages pulls embedded raster objects out of the PDF and
// filters out fragments below the size thresholds. Returns images grouped
// in page order; an empty result is not an error.
func ExtractEmbeddedImages(filename string) ([]EmbeddedImage, error) {
	tempDir, err := os.MkdirTemp("", "critex-extract-*")
	if err != nil {
		return nil, fmt.Errorf("raster: creating temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	if err := api.ExtractImagesFile(filename, tempDir, nil, nil); err != nil {
		return nil, fmt.Errorf("raster: extracting embedded images: %w", err)
	}

	return collectEmbeddedImages(tempDir)
}

// collectEmbeddedImages walks the extraction directory and keeps images
// that pass the size thresholds. pdfcpu names files page_<n>_image_<i>.<ext>.
func collectEmbeddedImages(dir string) ([]EmbeddedImage, error) {
	var images []EmbeddedImage

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.Size() < MinEmbeddedFileBytes {
			return nil
		}

		pageNum, err := parsePageFromFilename(info.Name())
		if err != nil {
			return nil
		}

		img, err := loadImageFile(path)
		if err != nil {
			return nil
		}
		bounds := img.Bounds()
		if bounds.Dx() < MinEmbeddedDimensionPx || bounds.Dy() < MinEmbeddedDimensionPx {
			return nil
		}

		images = append(images, EmbeddedImage{
			PageNumber: pageNum,
			Index:      len(images) + 1,
			Image:      img,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("raster: collecting extracted images: %w", err)
	}
	return images, nil
}

func loadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path comes from our own temp dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	return img, err
}

// parsePageFromFilename reads the page number out of a pdfcpu extraction
// filename such as page_3_image_1.png.
func parsePageFromFilename(filename string) (int, error) {
	if !strings.HasPrefix(filename, "page_") {
		return 0, errors.New("not a page file")
	}
	parts := strings.Split(filename, "_")
	if len(parts) < 2 {
		return 0, errors.New("invalid filename format")
	}
	pageNum, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.New("invalid page number")
	}
	return pageNum, nil
}
