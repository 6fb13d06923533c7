package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// discoverPDFFiles finds all PDF files under the given paths. Directory
// arguments are scanned, optionally recursively; file arguments are taken
// as-is when they match the filters. The result is sorted for stable
// batch ordering.
func discoverPDFFiles(args []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var pdfFiles []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			files, err := discoverInDirectory(arg, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			pdfFiles = append(pdfFiles, files...)
		} else if shouldIncludeFile(arg, includePatterns, excludePatterns) {
			pdfFiles = append(pdfFiles, arg)
		}
	}

	sort.Strings(pdfFiles)
	return pdfFiles, nil
}

// discoverInDirectory scans a directory for PDF files.
func discoverInDirectory(dir string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}

		return nil
	}

	return files, filepath.Walk(dir, walkFn)
}

// shouldIncludeFile applies the PDF extension check plus the user's
// include/exclude patterns. Excludes win over includes.
func shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return false
	}

	if matchesAnyPattern(path, excludePatterns) {
		return false
	}

	if len(includePatterns) == 0 {
		return true
	}

	return matchesAnyPattern(path, includePatterns)
}

// matchesAnyPattern checks the file's base name against glob patterns.
func matchesAnyPattern(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
