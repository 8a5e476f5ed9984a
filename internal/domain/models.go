package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"time"
)

// ParseFailureMessage is the fixed error text stored when a model response
// cannot be read as a BusinessInfo object.
const ParseFailureMessage = "Unable to parse extracted data"

// Document represents one input PDF file
type Document struct {
	Name string
	Path string
}

// PageImage represents a single rendered PDF page held in memory
type PageImage struct {
	PageNumber int
	Image      image.Image
	Width      int
	Height     int
}

// AdditionalInformation groups the free-form findings of a notice
type AdditionalInformation struct {
	KeyPoints []string `json:"key_points"`
}

// BusinessInfo is the structured record the model is asked to return.
// Nil pointers serialise as JSON null.
type BusinessInfo struct {
	CompanyName           *string               `json:"company_name"`
	CompanyIdentifier     *string               `json:"company_identifier"`
	DocumentPurpose       *string               `json:"document_purpose"`
	AdditionalInformation AdditionalInformation `json:"additional_information"`
}

// ParseFailure keeps the raw model output when it is not valid BusinessInfo JSON
type ParseFailure struct {
	Error string `json:"error"`
	Data  string `json:"data"`
}

// NewParseFailure builds the fallback record for raw model output
func NewParseFailure(raw string) *ParseFailure {
	return &ParseFailure{Error: ParseFailureMessage, Data: raw}
}

// ExtractionResult is the per-document outcome. A parsed response keeps the
// model's JSON verbatim in Raw; Info is a typed view of it, nil when the value
// does not fit BusinessInfo. Failure is set instead when the response is not JSON.
type ExtractionResult struct {
	Raw     json.RawMessage
	Info    *BusinessInfo
	Failure *ParseFailure
}

// NewResult wraps one parsed JSON value of any shape.
func NewResult(raw []byte) (ExtractionResult, error) {
	if !json.Valid(raw) {
		return ExtractionResult{}, fmt.Errorf("invalid JSON value")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ExtractionResult{}, err
	}
	r := ExtractionResult{Raw: json.RawMessage(buf.Bytes())}

	if bytes.HasPrefix(r.Raw, []byte("{")) {
		var info BusinessInfo
		if err := json.Unmarshal(r.Raw, &info); err == nil {
			r.Info = &info
		}
	}
	return r, nil
}

// Failed reports whether the result is a parse fallback
func (r ExtractionResult) Failed() bool {
	return r.Failure != nil
}

// MarshalJSON writes the failure object, the model's value as parsed, or
// Info when the result was built by hand.
func (r ExtractionResult) MarshalJSON() ([]byte, error) {
	if r.Failure == nil && r.Raw != nil {
		return r.Raw, nil
	}

	var v interface{} = r.Info
	switch {
	case r.Failure != nil:
		v = r.Failure
	case r.Info == nil:
		v = BusinessInfo{}
	}

	// Leave HTML escaping to the outer encoder
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON reads an object with string "error" and "data" keys as a
// failure and any other value as a parsed response.
func (r *ExtractionResult) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err == nil {
		_, hasError := keys["error"]
		_, hasData := keys["data"]
		var f ParseFailure
		if hasError && hasData && json.Unmarshal(data, &f) == nil {
			*r = ExtractionResult{Failure: &f}
			return nil
		}
	}

	result, err := NewResult(data)
	if err != nil {
		return err
	}
	*r = result
	return nil
}

// EventType represents the type of stream event
type EventType string

const (
	EventStart              EventType = "start"
	EventDocumentProcessing EventType = "document_processing"
	EventDocumentComplete   EventType = "document_complete"
	EventParseFallback      EventType = "parse_fallback"
	EventError              EventType = "error"
	EventComplete           EventType = "complete"
)

// StreamEvent represents an event emitted during a batch run
type StreamEvent struct {
	Type      EventType   `json:"type"`
	Document  string      `json:"document,omitempty"`
	Index     int         `json:"index,omitempty"` // 1-based position in the batch
	Total     int         `json:"total,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// BatchStats summarises a finished batch
type BatchStats struct {
	TotalTime      time.Duration
	Documents      int
	ParseFallbacks int
}
