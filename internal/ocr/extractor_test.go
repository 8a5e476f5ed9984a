package ocr

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/gazette-extractor/internal/domain"
	"github.com/spherical/gazette-extractor/internal/imaging"
)

type mockConverter struct {
	ConvertFunc func(ctx context.Context, pdfPath string) ([]domain.PageImage, error)
}

func (m *mockConverter) Convert(ctx context.Context, pdfPath string) ([]domain.PageImage, error) {
	return m.ConvertFunc(ctx, pdfPath)
}

type mockRecognizer struct {
	RecognizeFunc func(ctx context.Context, img *image.Gray) (string, error)
	calls         int
}

func (m *mockRecognizer) Recognize(ctx context.Context, img *image.Gray) (string, error) {
	m.calls++
	return m.RecognizeFunc(ctx, img)
}

// pages returns n blank pages whose width encodes their page number.
func pages(n int) []domain.PageImage {
	out := make([]domain.PageImage, n)
	for i := range out {
		img := image.NewRGBA(image.Rect(0, 0, i+1, 1))
		out[i] = domain.PageImage{PageNumber: i + 1, Image: img, Width: i + 1, Height: 1}
	}
	return out
}

func TestExtractText_ConcatenatesWithoutSeparator(t *testing.T) {
	conv := &mockConverter{ConvertFunc: func(ctx context.Context, pdfPath string) ([]domain.PageImage, error) {
		assert.Equal(t, "notice.pdf", pdfPath)
		return pages(3), nil
	}}
	texts := map[int]string{1: "Page one\n", 2: "Page two", 3: " and three\n\f"}
	rec := &mockRecognizer{RecognizeFunc: func(ctx context.Context, img *image.Gray) (string, error) {
		return texts[img.Bounds().Dx()], nil
	}}

	ext := NewTextExtractor(conv, imaging.NewPreprocessor(3), rec, nil)
	text, err := ext.ExtractText(context.Background(), "notice.pdf")

	require.NoError(t, err)
	assert.Equal(t, "Page one\nPage two and three\n\f", text)
	assert.Equal(t, 3, rec.calls)
}

func TestExtractText_NoPages(t *testing.T) {
	conv := &mockConverter{ConvertFunc: func(ctx context.Context, pdfPath string) ([]domain.PageImage, error) {
		return nil, nil
	}}
	rec := &mockRecognizer{RecognizeFunc: func(ctx context.Context, img *image.Gray) (string, error) {
		t.Fatal("recognizer must not be called")
		return "", nil
	}}

	text, err := NewTextExtractor(conv, imaging.NewPreprocessor(3), rec, nil).ExtractText(context.Background(), "empty.pdf")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestExtractText_ConversionErrorPropagates(t *testing.T) {
	convErr := domain.ConversionError("Failed to open PDF", errors.New("broken xref"))
	conv := &mockConverter{ConvertFunc: func(ctx context.Context, pdfPath string) ([]domain.PageImage, error) {
		return nil, convErr
	}}

	_, err := NewTextExtractor(conv, imaging.NewPreprocessor(3), &mockRecognizer{}, nil).ExtractText(context.Background(), "bad.pdf")
	assert.ErrorIs(t, err, convErr)
}

func TestExtractText_OCRErrorPropagates(t *testing.T) {
	conv := &mockConverter{ConvertFunc: func(ctx context.Context, pdfPath string) ([]domain.PageImage, error) {
		return pages(2), nil
	}}
	rec := &mockRecognizer{RecognizeFunc: func(ctx context.Context, img *image.Gray) (string, error) {
		if img.Bounds().Dx() == 2 {
			return "", domain.OCRError("recognize text", errors.New("tessdata missing"))
		}
		return "first", nil
	}}

	_, err := NewTextExtractor(conv, imaging.NewPreprocessor(3), rec, nil).ExtractText(context.Background(), "x.pdf")
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeOCR))
	assert.Contains(t, err.Error(), "page 2")
}

func TestExtractText_PassesPreprocessedImage(t *testing.T) {
	conv := &mockConverter{ConvertFunc: func(ctx context.Context, pdfPath string) ([]domain.PageImage, error) {
		img := image.NewRGBA(image.Rect(0, 0, 5, 5))
		return []domain.PageImage{{PageNumber: 1, Image: img, Width: 5, Height: 5}}, nil
	}}
	rec := &mockRecognizer{RecognizeFunc: func(ctx context.Context, img *image.Gray) (string, error) {
		for _, v := range img.Pix {
			if v != 0 && v != 255 {
				t.Fatalf("pixel %d is not binary", v)
			}
		}
		return "", nil
	}}

	_, err := NewTextExtractor(conv, imaging.NewPreprocessor(3), rec, nil).ExtractText(context.Background(), "x.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)
}
