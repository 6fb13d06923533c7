package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/critex/internal/criteria"
)

// Artifact filenames inside a job directory.
const (
	ResultsFilename = "extraction_results.json"
	TextFilename    = "extracted_text.txt"
	SummaryFilename = "summary_report.txt"
)

// WriteReports persists the JSON snapshot, the raw text, and the readable
// summary into jobDir.
func WriteReports(result *criteria.Result, jobDir string) error {
	if err := os.MkdirAll(jobDir, 0o750); err != nil {
		return fmt.Errorf("extract: creating job directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("extract: encoding results: %w", err)
	}
	if err := os.WriteFile(filepath.Join(jobDir, ResultsFilename), data, 0o600); err != nil {
		return fmt.Errorf("extract: writing results: %w", err)
	}

	if result.RawText != "" {
		if err := os.WriteFile(filepath.Join(jobDir, TextFilename), []byte(result.RawText), 0o600); err != nil {
			return fmt.Errorf("extract: writing raw text: %w", err)
		}
	}

	summary := SummaryReport(result)
	if err := os.WriteFile(filepath.Join(jobDir, SummaryFilename), []byte(summary), 0o600); err != nil {
		return fmt.Errorf("extract: writing summary: %w", err)
	}
	return nil
}

// SummaryReport renders the human-readable per-document report.
func SummaryReport(result *criteria.Result) string {
	var b strings.Builder

	b.WriteString("ENGINEERING DESIGN CRITERIA EXTRACTION REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	meta := result.Metadata
	b.WriteString("DOCUMENT INFORMATION:\n")
	fmt.Fprintf(&b, "Filename: %s\n", meta.Filename)
	fmt.Fprintf(&b, "File Size: %d bytes\n", meta.FileSize)
	fmt.Fprintf(&b, "Pages: %d\n", meta.PageCount)
	fmt.Fprintf(&b, "Processing Date: %s\n", meta.ProcessedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Overall Confidence: %.2f%%\n\n", result.ConfidenceScore*100)

	fmt.Fprintf(&b, "LOADS EXTRACTED: %d\n", len(result.Loads))
	for i, load := range result.Loads {
		fmt.Fprintf(&b, "  %d. %s: %g %s\n", i+1, load.LoadKind, load.Magnitude, load.Unit)
		if load.Description != "" {
			fmt.Fprintf(&b, "     Description: %s\n", load.Description)
		}
		fmt.Fprintf(&b, "     Confidence: %.2f%%\n\n", load.Confidence*100)
	}

	fmt.Fprintf(&b, "SEISMIC FORCES EXTRACTED: %d\n", len(result.SeismicForces))
	for i, sf := range result.SeismicForces {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, sf.Description)
		fmt.Fprintf(&b, "     Confidence: %.2f%%\n\n", sf.Confidence*100)
	}

	fmt.Fprintf(&b, "DESIGN VEHICLES EXTRACTED: %d\n", len(result.Vehicles))
	for i, v := range result.Vehicles {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, v.Description)
		fmt.Fprintf(&b, "     Confidence: %.2f%%\n\n", v.Confidence*100)
	}

	fmt.Fprintf(&b, "DESIGN CRANES EXTRACTED: %d\n", len(result.Cranes))
	for i, c := range result.Cranes {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, c.Description)
		fmt.Fprintf(&b, "     Confidence: %.2f%%\n\n", c.Confidence*100)
	}

	fmt.Fprintf(&b, "GENERIC TAGS EXTRACTED: %d\n", len(result.GenericTags))
	for i, g := range result.GenericTags {
		fmt.Fprintf(&b, "  %d. [%s] %s: %s\n", i+1, g.Category, g.Tag, g.Text)
		fmt.Fprintf(&b, "     Confidence: %.2f%%\n\n", g.Confidence*100)
	}

	fmt.Fprintf(&b, "TABLES EXTRACTED: %d\n", len(result.Tables))
	for i, tbl := range result.Tables {
		fmt.Fprintf(&b, "  %d. Table on page %d\n", i+1, tbl.PageNumber)
		fmt.Fprintf(&b, "     Rows: %d\n", len(tbl.Rows))
		fmt.Fprintf(&b, "     Confidence: %.2f%%\n\n", tbl.Confidence*100)
	}

	fmt.Fprintf(&b, "IMAGES EXTRACTED: %d\n", len(result.Images))
	for i, img := range result.Images {
		fmt.Fprintf(&b, "  %d. Image on page %d (%s)\n", i+1, img.PageNumber, img.Source)
		fmt.Fprintf(&b, "     File: %s\n", img.Path)
		fmt.Fprintf(&b, "     Confidence: %.2f%%\n\n", img.Confidence*100)
	}

	return b.String()
}
