package extractor

import (
	"context"
	"path/filepath"

	"github.com/spherical/gazette-extractor/internal/config"
	"github.com/spherical/gazette-extractor/internal/domain"
	"github.com/spherical/gazette-extractor/internal/extract"
	"github.com/spherical/gazette-extractor/internal/imaging"
	"github.com/spherical/gazette-extractor/internal/llm"
	"github.com/spherical/gazette-extractor/internal/observability"
	"github.com/spherical/gazette-extractor/internal/ocr"
	"github.com/spherical/gazette-extractor/internal/output"
	"github.com/spherical/gazette-extractor/internal/pdf"
)

// Re-export result and event types for public API
type (
	Config           = config.Config
	ExtractionResult = domain.ExtractionResult
	BusinessInfo     = domain.BusinessInfo
	ParseFailure     = domain.ParseFailure
	StreamEvent      = domain.StreamEvent
	EventType        = domain.EventType
	BatchStats       = domain.BatchStats
)

// Event type constants
const (
	EventStart              = domain.EventStart
	EventDocumentProcessing = domain.EventDocumentProcessing
	EventDocumentComplete   = domain.EventDocumentComplete
	EventParseFallback      = domain.EventParseFallback
	EventError              = domain.EventError
	EventComplete           = domain.EventComplete
)

// Client is the main entry point for the gazette extractor library
type Client struct {
	cfg     *config.Config
	service *extract.Service
}

// Option customises a Client
type Option func(*options)

type options struct {
	logger     *observability.Logger
	completer  llm.Completer
	recognizer domain.Recognizer
}

// WithLogger sets the logger used by every component
func WithLogger(l *observability.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCompleter replaces the HTTP chat-completion client
func WithCompleter(c llm.Completer) Option {
	return func(o *options) { o.completer = c }
}

// WithRecognizer replaces the Tesseract engine
func WithRecognizer(r domain.Recognizer) Option {
	return func(o *options) { o.recognizer = r }
}

// NewClient creates a client from environment variables and an optional .env file
func NewClient(opts ...Option) (*Client, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return NewClientWithConfig(cfg, opts...)
}

// NewClientWithConfig creates a client with explicit configuration
func NewClientWithConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, domain.ConfigError("config is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = observability.Nop()
	}
	if o.recognizer == nil {
		o.recognizer = ocr.NewTesseractEngine(cfg.OCR.Languages, cfg.Render.DPI)
	}
	if o.completer == nil {
		o.completer = llm.NewClient(llm.ClientConfig{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			MaxRetries:  cfg.LLM.MaxRetries,
			Timeout:     cfg.LLM.Timeout,
			Logger:      o.logger,
		})
	}

	// Initialize components
	converter := pdf.NewConverter(cfg.Render.DPI, o.logger)
	preprocessor := imaging.NewPreprocessor(cfg.Preprocess.MedianWindow)
	text := ocr.NewTextExtractor(converter, preprocessor, o.recognizer, o.logger)
	info := llm.NewExtractor(o.completer, o.logger)

	return &Client{
		cfg:     cfg,
		service: extract.NewService(text, info, o.logger),
	}, nil
}

// Config returns the configuration the client was built with
func (c *Client) Config() *config.Config {
	return c.cfg
}

// ProcessDirectory extracts one result per PDF in dir. eventCh may be nil.
func (c *Client) ProcessDirectory(ctx context.Context, dir string, eventCh chan<- StreamEvent) ([]ExtractionResult, error) {
	return c.service.ProcessDirectory(ctx, dir, eventCh)
}

// ExtractFile processes a single PDF
func (c *Client) ExtractFile(ctx context.Context, path string) (ExtractionResult, error) {
	return c.service.ProcessDocument(ctx, domain.Document{Name: filepath.Base(path), Path: path})
}

// Run processes the configured input directory and writes the configured output file
func (c *Client) Run(ctx context.Context, eventCh chan<- StreamEvent) ([]ExtractionResult, error) {
	results, err := c.ProcessDirectory(ctx, c.cfg.Input.Directory, eventCh)
	if err != nil {
		return nil, err
	}
	if err := c.Write(c.cfg.Output.Path, results); err != nil {
		return nil, err
	}
	return results, nil
}

// Write saves results as indented JSON, replacing path
func (c *Client) Write(path string, results []ExtractionResult) error {
	return output.WriteJSON(path, results)
}

// ReadResults loads a results file written by Write
func ReadResults(path string) ([]ExtractionResult, error) {
	return output.ReadJSON(path)
}
