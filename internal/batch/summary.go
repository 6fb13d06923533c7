package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Summary artifact filenames inside the batch output directory.
const (
	SummaryJSONFilename = "batch_summary.json"
	SummaryTextFilename = "batch_summary.txt"
)

// writeSummary persists the machine-readable and human-readable batch
// summaries.
func writeSummary(result *Result, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, SummaryJSONFilename), data, 0o600); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	text := FormatSummary(result)
	if err := os.WriteFile(filepath.Join(outputDir, SummaryTextFilename), []byte(text), 0o600); err != nil {
		return fmt.Errorf("writing summary text: %w", err)
	}
	return nil
}

// FormatSummary renders the batch outcome for terminals and log files.
func FormatSummary(result *Result) string {
	var b strings.Builder

	b.WriteString("BATCH EXTRACTION SUMMARY\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	fmt.Fprintf(&b, "Documents: %d\n", len(result.Files))
	fmt.Fprintf(&b, "Succeeded: %d\n", result.Succeeded)
	fmt.Fprintf(&b, "Failed: %d\n", result.Failed)
	fmt.Fprintf(&b, "Workers: %d\n", result.WorkerCount)
	fmt.Fprintf(&b, "Duration: %s\n\n", result.Duration.Round(time.Millisecond))

	for i, fr := range result.Files {
		status := "ok"
		detail := ""
		if !fr.Succeeded() {
			status = "FAILED"
			detail = " (" + fr.Error + ")"
		} else if fr.Result != nil {
			detail = fmt.Sprintf(" (%d records, %d images)", fr.Result.RecordCount(), len(fr.Result.Images))
		}
		fmt.Fprintf(&b, "%3d. [%s] %s%s\n", i+1, status, fr.Path, detail)
	}

	return b.String()
}
