package domain

import (
	"context"
	"image"
)

// Converter defines the interface for rendering PDF pages to images
type Converter interface {
	// Convert renders every page of a PDF in page order
	Convert(ctx context.Context, pdfPath string) ([]PageImage, error)
}

// Recognizer defines the interface for OCR engines
type Recognizer interface {
	// Recognize returns the raw text found in a preprocessed page image
	Recognize(ctx context.Context, img *image.Gray) (string, error)
}

// TextExtractor turns one PDF into its concatenated OCR text
type TextExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// InfoExtractor distills OCR text into one ExtractionResult
type InfoExtractor interface {
	Extract(ctx context.Context, text string) (ExtractionResult, error)
}
