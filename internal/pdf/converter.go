package pdf

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/gazette-extractor/internal/domain"
	"github.com/spherical/gazette-extractor/internal/observability"
)

// Converter renders PDF pages to in-memory images using go-fitz
type Converter struct {
	dpi       int
	validator *Validator
	logger    *observability.Logger
}

// NewConverter creates a converter that renders at the given DPI
func NewConverter(dpi int, logger *observability.Logger) *Converter {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Converter{
		dpi:       dpi,
		validator: NewValidator(logger),
		logger:    logger.WithComponent("pdf"),
	}
}

// Convert renders every page of the PDF at the configured DPI, in page order.
// A document without pages yields an empty slice.
func (c *Converter) Convert(ctx context.Context, pdfPath string) ([]domain.PageImage, error) {
	// Validate input
	if err := c.validator.ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if err := c.validator.ValidateDPI(c.dpi); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.ConversionError("Failed to open PDF", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	c.logger.Debug().Str("path", pdfPath).Int("pages", pageCount).Int("dpi", c.dpi).Msg("Rendering PDF")

	images := make([]domain.PageImage, 0, pageCount)

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageNum, float64(c.dpi))
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("Failed to render page %d", pageNum+1), err)
		}

		bounds := img.Bounds()
		images = append(images, domain.PageImage{
			PageNumber: pageNum + 1,
			Image:      img,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		})
	}

	return images, nil
}
