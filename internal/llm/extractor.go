package llm

import (
	"context"

	"github.com/spherical/gazette-extractor/internal/domain"
	"github.com/spherical/gazette-extractor/internal/observability"
)

// Completer sends one prompt and returns the model's text
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor implements domain.InfoExtractor on top of a Completer
type Extractor struct {
	completer Completer
	logger    *observability.Logger
}

// NewExtractor creates an information extractor
func NewExtractor(completer Completer, logger *observability.Logger) *Extractor {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Extractor{
		completer: completer,
		logger:    logger.WithComponent("llm"),
	}
}

// Extract asks the model for the business record of text. Transport and API
// errors are returned; an unparseable answer is not an error.
func (e *Extractor) Extract(ctx context.Context, text string) (domain.ExtractionResult, error) {
	raw, err := e.completer.Complete(ctx, BuildPrompt(text))
	if err != nil {
		return domain.ExtractionResult{}, err
	}

	result := ParseResult(raw)
	if result.Failed() {
		e.logger.Warn().Int("response_chars", len(raw)).Msg("Model response is not valid JSON, keeping raw text")
	}
	return result, nil
}
