package llm

import (
	"strings"

	"github.com/spherical/gazette-extractor/internal/domain"
)

// ParseResult keeps any JSON value the model returns as is. Text that is not
// a single JSON value becomes a ParseFailure holding the trimmed response.
func ParseResult(raw string) domain.ExtractionResult {
	text := strings.TrimSpace(raw)

	result, err := domain.NewResult([]byte(text))
	if err != nil {
		return domain.ExtractionResult{Failure: domain.NewParseFailure(text)}
	}
	return result
}
