// Package config loads run configuration from an optional YAML file, a .env
// file and environment variables, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical/gazette-extractor/internal/domain"
)

const (
	DefaultOutputPath = "extracted_info.json"
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultModel      = "gpt-4"
	DefaultDPI        = 300
)

// Config holds all configuration for a batch run.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Render     RenderConfig     `yaml:"render"`
	OCR        OCRConfig        `yaml:"ocr"`
	Preprocess PreprocessConfig `yaml:"preprocess"`
	LLM        LLMConfig        `yaml:"llm"`
	Log        LogConfig        `yaml:"log"`
}

// InputConfig selects the directory scanned for PDF files.
type InputConfig struct {
	Directory string `yaml:"directory"`
}

// OutputConfig selects the JSON results file.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// RenderConfig controls PDF page rasterisation.
type RenderConfig struct {
	DPI int `yaml:"dpi"`
}

// OCRConfig controls the Tesseract engine.
type OCRConfig struct {
	Languages []string `yaml:"languages"`
}

// PreprocessConfig controls image cleanup before OCR.
type PreprocessConfig struct {
	MedianWindow int `yaml:"median_window"`
}

// LLMConfig holds chat-completion settings.
type LLMConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	MaxRetries  int           `yaml:"max_retries"`
	Timeout     time.Duration `yaml:"timeout"` // 0 means no timeout
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the settings the extractor runs with when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Path: DefaultOutputPath},
		Render: RenderConfig{DPI: DefaultDPI},
		OCR:    OCRConfig{Languages: []string{"eng"}},
		Preprocess: PreprocessConfig{
			MedianWindow: 3,
		},
		LLM: LLMConfig{
			BaseURL:     DefaultBaseURL,
			Model:       DefaultModel,
			MaxTokens:   1500,
			Temperature: 0.5,
			MaxRetries:  3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file (optional), applies .env and
// environment overrides, fills the input directory default and validates.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Input.Directory == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, domain.ConfigError("resolve working directory", err)
		}
		cfg.Input.Directory = wd
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return domain.ConfigError("OPENAI_API_KEY not set", nil)
	}
	if c.LLM.Model == "" {
		return domain.ConfigError("llm model is required", nil)
	}
	if c.LLM.MaxTokens <= 0 {
		return domain.ConfigError(fmt.Sprintf("max_tokens must be positive, got %d", c.LLM.MaxTokens), nil)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return domain.ConfigError(fmt.Sprintf("temperature must be between 0 and 2, got %g", c.LLM.Temperature), nil)
	}
	if c.LLM.MaxRetries < 0 {
		return domain.ConfigError("max_retries cannot be negative", nil)
	}
	if c.LLM.Timeout < 0 {
		return domain.ConfigError("timeout cannot be negative", nil)
	}
	if c.Render.DPI < 72 || c.Render.DPI > 1200 {
		return domain.ConfigError(fmt.Sprintf("dpi must be between 72 and 1200, got %d", c.Render.DPI), nil)
	}
	if c.Preprocess.MedianWindow < 1 || c.Preprocess.MedianWindow%2 == 0 {
		return domain.ConfigError(fmt.Sprintf("median_window must be a positive odd number, got %d", c.Preprocess.MedianWindow), nil)
	}
	if len(c.OCR.Languages) == 0 {
		return domain.ConfigError("at least one OCR language is required", nil)
	}
	if c.Output.Path == "" {
		return domain.ConfigError("output path is required", nil)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PDF_DIRECTORY"); v != "" {
		cfg.Input.Directory = v
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		cfg.Output.Path = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
