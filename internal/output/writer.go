// Package output persists batch results as an indented JSON array.
package output

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/spherical/gazette-extractor/internal/domain"
)

const indent = "    "

// Encode renders results as UTF-8 JSON with four-space indentation. HTML
// characters and non-ASCII text are written unescaped. A nil slice becomes [].
func Encode(results []domain.ExtractionResult) ([]byte, error) {
	if results == nil {
		results = []domain.ExtractionResult{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(results); err != nil {
		return nil, err
	}

	// Encoder appends a newline; the file ends at the closing bracket
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteJSON writes results to path, replacing any existing content.
func WriteJSON(path string, results []domain.ExtractionResult) error {
	data, err := Encode(results)
	if err != nil {
		return domain.IOError("Failed to encode results", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return domain.IOError("Failed to write output file", err)
	}
	return nil
}

// ReadJSON loads a results file written by WriteJSON.
func ReadJSON(path string) ([]domain.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.IOError("Failed to read output file", err)
	}

	var results []domain.ExtractionResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, domain.IOError("Failed to decode output file", err)
	}
	return results, nil
}
