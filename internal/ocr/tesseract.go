// Package ocr turns rendered PDF pages into text with Tesseract.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/spherical/gazette-extractor/internal/domain"
)

// TesseractEngine implements domain.Recognizer with a gosseract client per page.
type TesseractEngine struct {
	languages     []string
	dpi           int
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed recognizer. dpi is passed
// to Tesseract as user_defined_dpi when positive.
func NewTesseractEngine(languages []string, dpi int) *TesseractEngine {
	return &TesseractEngine{
		languages:     languages,
		dpi:           dpi,
		clientFactory: gosseract.NewClient,
	}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize returns the raw text Tesseract finds in img, untrimmed.
func (e *TesseractEngine) Recognize(ctx context.Context, img *image.Gray) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", domain.OCRError("encode page image", err)
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", domain.OCRError("set image", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", domain.OCRError("set languages", err)
		}
	}
	if e.dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(e.dpi)); err != nil {
			return "", domain.OCRError("set dpi", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", domain.OCRError("recognize text", err)
	}
	return text, nil
}
