package batch

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/critex/internal/docai"
	"github.com/MeKo-Tech/critex/internal/extract"
)

// flakyClient fails documents whose content carries a poison marker.
type flakyClient struct{}

func (c *flakyClient) Process(_ context.Context, document []byte, _ string) (*docai.Response, error) {
	if string(document) == "%PDF-1.4 poison" {
		return nil, assert.AnError
	}
	return &docai.Response{
		Entities: []docai.Entity{
			{Type: "VERTICAL_LIVE_LOADS", MentionText: "LL 5 kPa", Confidence: 0.9, PageNumber: 1},
		},
	}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func writePDF(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProcessBatch(t *testing.T) {
	docs := t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		writePDF(t, docs, name, "%PDF-1.4 content")
	}

	out := t.TempDir()
	extractor := extract.New(&flakyClient{}, filepath.Join(out, "jobs"), quietLogger())

	result, err := Process(context.Background(), extractor, []string{docs}, Config{OutputDir: out}, quietLogger())
	require.NoError(t, err)

	assert.Len(t, result.Files, 3)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 3, result.WorkerCount)

	// Discovery order is stable and sorted.
	assert.Equal(t, filepath.Join(docs, "a.pdf"), result.Files[0].Path)
	assert.Equal(t, filepath.Join(docs, "c.pdf"), result.Files[2].Path)

	for _, fr := range result.Files {
		require.NotNil(t, fr.Result)
		assert.Len(t, fr.Result.Loads, 1)
		assert.NotEmpty(t, fr.JobID)
	}
}

func TestProcessFaultIsolation(t *testing.T) {
	docs := t.TempDir()
	writePDF(t, docs, "good1.pdf", "%PDF-1.4 content")
	writePDF(t, docs, "poison.pdf", "%PDF-1.4 poison")
	writePDF(t, docs, "good2.pdf", "%PDF-1.4 content")

	extractor := extract.New(&flakyClient{}, t.TempDir(), quietLogger())
	result, err := Process(context.Background(), extractor, []string{docs}, Config{Workers: 2}, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	byName := map[string]FileResult{}
	for _, fr := range result.Files {
		byName[filepath.Base(fr.Path)] = fr
	}
	assert.True(t, byName["good1.pdf"].Succeeded())
	assert.True(t, byName["good2.pdf"].Succeeded())
	assert.False(t, byName["poison.pdf"].Succeeded())
	assert.NotEmpty(t, byName["poison.pdf"].Error)
}

func TestProcessWritesSummary(t *testing.T) {
	docs := t.TempDir()
	writePDF(t, docs, "one.pdf", "%PDF-1.4 content")

	out := t.TempDir()
	extractor := extract.New(&flakyClient{}, filepath.Join(out, "jobs"), quietLogger())

	result, err := Process(context.Background(), extractor, []string{docs}, Config{OutputDir: out}, quietLogger())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, SummaryJSONFilename))
	require.NoError(t, err)
	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result.Succeeded, decoded.Succeeded)

	text, err := os.ReadFile(filepath.Join(out, SummaryTextFilename))
	require.NoError(t, err)
	assert.Contains(t, string(text), "BATCH EXTRACTION SUMMARY")
	assert.Contains(t, string(text), "one.pdf")
}

func TestProcessNoFiles(t *testing.T) {
	extractor := extract.New(&flakyClient{}, t.TempDir(), quietLogger())

	_, err := Process(context.Background(), extractor, []string{t.TempDir()}, Config{}, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no PDF files")
}

func TestDiscoverPDFFiles(t *testing.T) {
	root := t.TempDir()
	writePDF(t, root, "top.pdf", "x")
	writePDF(t, root, "skip.txt", "x")

	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	writePDF(t, nested, "deep.pdf", "x")

	flat, err := discoverPDFFiles([]string{root}, false, nil, nil)
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.Equal(t, "top.pdf", filepath.Base(flat[0]))

	recursive, err := discoverPDFFiles([]string{root}, true, nil, nil)
	require.NoError(t, err)
	assert.Len(t, recursive, 2)

	_, err = discoverPDFFiles([]string{filepath.Join(root, "missing")}, false, nil, nil)
	assert.Error(t, err)
}

func TestDiscoverPatternFilters(t *testing.T) {
	root := t.TempDir()
	writePDF(t, root, "keep_me.pdf", "x")
	writePDF(t, root, "drop_me.pdf", "x")

	included, err := discoverPDFFiles([]string{root}, false, []string{"keep_*.pdf"}, nil)
	require.NoError(t, err)
	require.Len(t, included, 1)
	assert.Equal(t, "keep_me.pdf", filepath.Base(included[0]))

	excluded, err := discoverPDFFiles([]string{root}, false, nil, []string{"drop_*.pdf"})
	require.NoError(t, err)
	require.Len(t, excluded, 1)
	assert.Equal(t, "keep_me.pdf", filepath.Base(excluded[0]))
}
