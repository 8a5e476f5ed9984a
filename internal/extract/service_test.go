package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/gazette-extractor/internal/domain"
)

type mockTextExtractor struct {
	ExtractTextFunc func(ctx context.Context, pdfPath string) (string, error)
	paths           []string
}

func (m *mockTextExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	m.paths = append(m.paths, pdfPath)
	if m.ExtractTextFunc != nil {
		return m.ExtractTextFunc(ctx, pdfPath)
	}
	return "text of " + filepath.Base(pdfPath), nil
}

type mockInfoExtractor struct {
	ExtractFunc func(ctx context.Context, text string) (domain.ExtractionResult, error)
}

func (m *mockInfoExtractor) Extract(ctx context.Context, text string) (domain.ExtractionResult, error) {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, text)
	}
	name := text
	return domain.ExtractionResult{Info: &domain.BusinessInfo{CompanyName: &name}}, nil
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0644))
	}
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	touch(t, dir, "b.pdf", "a.pdf", "c.pdf", "notes.txt", "scan.PDF", "archive.pdf.bak", "pdf")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))
	touch(t, filepath.Join(dir, "nested"), "deep.pdf")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0755))
	return dir
}

func TestListDocuments(t *testing.T) {
	dir := fixtureDir(t)

	docs, err := ListDocuments(dir)
	require.NoError(t, err)

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
		assert.Equal(t, filepath.Join(dir, d.Name), d.Path)
	}
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, names)
}

func TestListDocuments_MissingDirectory(t *testing.T) {
	_, err := ListDocuments(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeIO))
}

func TestProcessDirectory_OneResultPerPDF(t *testing.T) {
	dir := fixtureDir(t)
	text := &mockTextExtractor{}
	svc := NewService(text, &mockInfoExtractor{}, nil)

	results, err := svc.ProcessDirectory(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, want := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		assert.Equal(t, "text of "+want, *results[i].Info.CompanyName)
		assert.Equal(t, filepath.Join(dir, want), text.paths[i])
	}
}

func TestProcessDirectory_EmptyDirectory(t *testing.T) {
	results, err := NewService(&mockTextExtractor{}, &mockInfoExtractor{}, nil).
		ProcessDirectory(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestProcessDirectory_ParseFallbackContinues(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1.pdf", "2.pdf")

	info := &mockInfoExtractor{ExtractFunc: func(ctx context.Context, text string) (domain.ExtractionResult, error) {
		if text == "text of 1.pdf" {
			return domain.ExtractionResult{Failure: domain.NewParseFailure("Sure, here is the data: ...")}, nil
		}
		return domain.ExtractionResult{Info: &domain.BusinessInfo{}}, nil
	}}

	eventCh := make(chan domain.StreamEvent, 32)
	results, err := NewService(&mockTextExtractor{}, info, nil).ProcessDirectory(context.Background(), dir, eventCh)
	close(eventCh)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Failed())
	assert.Equal(t, "Sure, here is the data: ...", results[0].Failure.Data)
	assert.False(t, results[1].Failed())

	var types []domain.EventType
	var stats domain.BatchStats
	for ev := range eventCh {
		types = append(types, ev.Type)
		if ev.Type == domain.EventComplete {
			stats = ev.Payload.(domain.BatchStats)
		}
	}
	assert.Equal(t, []domain.EventType{
		domain.EventStart,
		domain.EventDocumentProcessing, domain.EventParseFallback, domain.EventDocumentComplete,
		domain.EventDocumentProcessing, domain.EventDocumentComplete,
		domain.EventComplete,
	}, types)
	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 1, stats.ParseFallbacks)
}

func TestProcessDirectory_OCRErrorAbortsBatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "b.pdf", "c.pdf")

	ocrErr := domain.OCRError("recognize text", errors.New("tesseract not found"))
	text := &mockTextExtractor{ExtractTextFunc: func(ctx context.Context, pdfPath string) (string, error) {
		if filepath.Base(pdfPath) == "b.pdf" {
			return "", ocrErr
		}
		return "ok", nil
	}}

	eventCh := make(chan domain.StreamEvent, 32)
	results, err := NewService(text, &mockInfoExtractor{}, nil).ProcessDirectory(context.Background(), dir, eventCh)
	close(eventCh)

	require.Error(t, err)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, ocrErr)
	assert.Contains(t, err.Error(), "b.pdf")
	assert.Len(t, text.paths, 2, "c.pdf must not be processed")

	var last domain.StreamEvent
	for ev := range eventCh {
		last = ev
	}
	assert.Equal(t, domain.EventError, last.Type)
}

func TestProcessDirectory_APIErrorAbortsBatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")

	info := &mockInfoExtractor{ExtractFunc: func(ctx context.Context, text string) (domain.ExtractionResult, error) {
		return domain.ExtractionResult{}, domain.APIError("API returned status 500", nil)
	}}

	_, err := NewService(&mockTextExtractor{}, info, nil).ProcessDirectory(context.Background(), dir, nil)
	assert.True(t, domain.IsType(err, domain.ErrorTypeAPI))
}

func TestProcessDirectory_Cancelled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text := &mockTextExtractor{}
	_, err := NewService(text, &mockInfoExtractor{}, nil).ProcessDirectory(ctx, dir, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, text.paths)
}

func TestEmitEvent_FullChannelDoesNotBlock(t *testing.T) {
	svc := NewService(&mockTextExtractor{}, &mockInfoExtractor{}, nil)
	ch := make(chan domain.StreamEvent, 1)

	svc.emitEvent(ch, domain.StreamEvent{Type: domain.EventStart})
	svc.emitEvent(ch, domain.StreamEvent{Type: domain.EventComplete})

	assert.Len(t, ch, 1)
	assert.Equal(t, domain.EventStart, (<-ch).Type)
}
