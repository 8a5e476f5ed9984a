package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/spherical/gazette-extractor/internal/domain"
	"github.com/spherical/gazette-extractor/internal/observability"
)

// Preprocessor prepares a rendered page for recognition
type Preprocessor interface {
	Preprocess(img image.Image) *image.Gray
}

// TextExtractor renders a PDF, cleans each page and concatenates the OCR text
type TextExtractor struct {
	converter    domain.Converter
	preprocessor Preprocessor
	recognizer   domain.Recognizer
	logger       *observability.Logger
}

// NewTextExtractor wires a converter, preprocessor and recognizer together
func NewTextExtractor(converter domain.Converter, preprocessor Preprocessor, recognizer domain.Recognizer, logger *observability.Logger) *TextExtractor {
	if logger == nil {
		logger = observability.Nop()
	}
	return &TextExtractor{
		converter:    converter,
		preprocessor: preprocessor,
		recognizer:   recognizer,
		logger:       logger.WithComponent("ocr"),
	}
}

// ExtractText returns the text of all pages in page order. Pages are joined
// without a separator.
func (e *TextExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	pages, err := e.converter.Convert(ctx, pdfPath)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, page := range pages {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		clean := e.preprocessor.Preprocess(page.Image)
		pageText, err := e.recognizer.Recognize(ctx, clean)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", page.PageNumber, err)
		}

		e.logger.Debug().Int("page", page.PageNumber).Int("chars", len(pageText)).Msg("Recognized page")
		text.WriteString(pageText)
	}

	return text.String(), nil
}
