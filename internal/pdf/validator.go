package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/spherical/gazette-extractor/internal/domain"
	"github.com/spherical/gazette-extractor/internal/observability"
)

const (
	minDPI = 72
	maxDPI = 1200

	largeFileSize = 100 * 1024 * 1024 // 100MB
)

// Validator provides input validation for PDF files
type Validator struct {
	logger *observability.Logger
}

// NewValidator creates a new validator instance
func NewValidator(logger *observability.Logger) *Validator {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Validator{logger: logger}
}

// ValidatePDFPath checks that path names a readable regular file
func (v *Validator) ValidatePDFPath(path string) error {
	// Check if path is empty
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	// Check if file exists
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	// Check if it's a directory
	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	// Just a warning, not an error
	if info.Size() > largeFileSize {
		v.logger.Warn().Str("path", path).Int64("size_mb", info.Size()/(1024*1024)).Msg("PDF file is very large, processing may take a while")
	}

	// Check if file is readable
	file, err := os.Open(path)
	if err != nil {
		return domain.ValidationError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	file.Close()

	return nil
}

// ValidateDPI validates the render resolution
func (v *Validator) ValidateDPI(dpi int) error {
	if dpi < minDPI || dpi > maxDPI {
		return domain.ValidationError(fmt.Sprintf("dpi must be between %d and %d, got %d", minDPI, maxDPI, dpi), nil)
	}
	return nil
}
