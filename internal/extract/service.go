package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spherical/gazette-extractor/internal/domain"
	"github.com/spherical/gazette-extractor/internal/observability"
)

const pdfSuffix = ".pdf"

// Service runs OCR and information extraction over a directory of notices
type Service struct {
	text   domain.TextExtractor
	info   domain.InfoExtractor
	logger *observability.Logger
}

// NewService creates a new batch service
func NewService(text domain.TextExtractor, info domain.InfoExtractor, logger *observability.Logger) *Service {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Service{
		text:   text,
		info:   info,
		logger: logger.WithComponent("extract"),
	}
}

// ListDocuments returns the regular entries of dir whose name ends in ".pdf"
// (case-sensitive), in directory listing order. Subdirectories are not entered.
func ListDocuments(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("Failed to read directory %s", dir), err)
	}

	docs := make([]domain.Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), pdfSuffix) {
			continue
		}
		docs = append(docs, domain.Document{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	return docs, nil
}

// ProcessDirectory extracts one result per PDF in dir. The first OCR, API or
// I/O error aborts the batch and no results are returned.
func (s *Service) ProcessDirectory(ctx context.Context, dir string, eventCh chan<- domain.StreamEvent) ([]domain.ExtractionResult, error) {
	startTime := time.Now()

	docs, err := ListDocuments(dir)
	if err != nil {
		s.emitError(eventCh, err)
		return nil, err
	}

	s.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventStart,
		Total:     len(docs),
		Payload:   fmt.Sprintf("Found %d PDF files in %s", len(docs), dir),
		Timestamp: time.Now(),
	})
	s.logger.Info().Str("directory", dir).Int("documents", len(docs)).Msg("Starting batch")

	results := make([]domain.ExtractionResult, 0, len(docs))
	fallbacks := 0

	for i, doc := range docs {
		select {
		case <-ctx.Done():
			s.emitError(eventCh, ctx.Err())
			return nil, ctx.Err()
		default:
		}

		s.emitEvent(eventCh, domain.StreamEvent{
			Type:      domain.EventDocumentProcessing,
			Document:  doc.Name,
			Index:     i + 1,
			Total:     len(docs),
			Payload:   fmt.Sprintf("Processing %s...", doc.Name),
			Timestamp: time.Now(),
		})

		result, err := s.ProcessDocument(ctx, doc)
		if err != nil {
			err = fmt.Errorf("%s: %w", doc.Name, err)
			s.emitError(eventCh, err)
			return nil, err
		}

		if result.Failed() {
			fallbacks++
			s.emitEvent(eventCh, domain.StreamEvent{
				Type:      domain.EventParseFallback,
				Document:  doc.Name,
				Index:     i + 1,
				Total:     len(docs),
				Payload:   domain.ParseFailureMessage,
				Timestamp: time.Now(),
			})
		}

		results = append(results, result)

		s.emitEvent(eventCh, domain.StreamEvent{
			Type:      domain.EventDocumentComplete,
			Document:  doc.Name,
			Index:     i + 1,
			Total:     len(docs),
			Timestamp: time.Now(),
		})
	}

	stats := domain.BatchStats{
		TotalTime:      time.Since(startTime),
		Documents:      len(results),
		ParseFallbacks: fallbacks,
	}

	s.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventComplete,
		Total:     len(docs),
		Payload:   stats,
		Timestamp: time.Now(),
	})

	s.logger.Info().
		Int("documents", stats.Documents).
		Int("parse_fallbacks", stats.ParseFallbacks).
		Dur("duration", stats.TotalTime).
		Msg("Batch complete")

	return results, nil
}

// ProcessDocument runs OCR then information extraction for a single PDF
func (s *Service) ProcessDocument(ctx context.Context, doc domain.Document) (domain.ExtractionResult, error) {
	logger := s.logger.WithDocument(doc.Name)
	logger.Info().Msg("Processing document")

	text, err := s.text.ExtractText(ctx, doc.Path)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	logger.Debug().Int("chars", len(text)).Msg("Extracted text")

	result, err := s.info.Extract(ctx, text)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	return result, nil
}

// emitEvent safely emits an event to the channel
func (s *Service) emitEvent(eventCh chan<- domain.StreamEvent, event domain.StreamEvent) {
	if eventCh != nil {
		select {
		case eventCh <- event:
		default:
			s.logger.Warn().Str("event", string(event.Type)).Msg("Event channel full, dropping event")
		}
	}
}

// emitError emits an error event
func (s *Service) emitError(eventCh chan<- domain.StreamEvent, err error) {
	s.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventError,
		Payload:   err.Error(),
		Timestamp: time.Now(),
	})
}
